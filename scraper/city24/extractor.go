package city24

import (
	"fmt"
	"net/url"
	"strings"

	"apartment-scraper/models"
	"apartment-scraper/scraper/dom"
	"apartment-scraper/services"
	"apartment-scraper/utils"
)

// Extractor turns one listing node into a ListingRecord.
type Extractor struct {
	logger *utils.Logger
}

func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract builds a record from node. Relative links are resolved against
// pageURL. It returns nil when the listing has no address or when anything
// unexpected happens; it never panics.
func (e *Extractor) Extract(node dom.Node, pageURL string) (record *models.ListingRecord) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("[extractor] %v", &ScrapeError{Level: LevelListing, What: "listing dropped", Err: panicError(r)})
			record = nil
		}
	}()

	address, err := e.address(node)
	if err != nil {
		e.logger.Error("[extractor] %v", &ScrapeError{Level: LevelListing, What: "listing dropped", Err: err})
		return nil
	}

	features := e.features(node)

	return &models.ListingRecord{
		Address:      address,
		PriceTotal:   attempt(e, PriceTotalPattern.Name, models.UnknownNumber(), priceOf(node, PriceTotalPattern)),
		PricePerArea: attempt(e, PricePerAreaPattern.Name, models.UnknownNumber(), priceOf(node, PricePerAreaPattern)),
		AreaName:     attempt(e, AreaPattern.Name, "", textQuery(node, AreaPattern)),
		Size:         features.Size,
		Rooms:        features.Rooms,
		Floor:        features.Floor,
		Year:         features.Year,
		Link:         attempt(e, LinkPattern.Name, "", linkOf(node, pageURL)),
	}
}

// address is the only field whose absence invalidates the listing.
func (e *Extractor) address(node dom.Node) (address string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	address, err = textQuery(node, AddressPattern)()
	if err != nil {
		return "", err
	}
	if address == "" {
		return "", fmt.Errorf("%s: empty text: %w", AddressPattern.Name, ErrNotFound)
	}
	return address, nil
}

func (e *Extractor) features(node dom.Node) models.Features {
	items := attempt(e, FeaturesPattern.Name, []models.RawFeatureItem(nil), func() ([]models.RawFeatureItem, error) {
		container, ok := node.Find(FeaturesPattern)
		if !ok {
			return nil, notFound(FeaturesPattern.Name)
		}
		var items []models.RawFeatureItem
		for _, li := range container.FindAll(FeatureItemPattern) {
			hint, hasHint := e.hintOf(li)
			items = append(items, models.RawFeatureItem{Text: li.Text(), Hint: hint, HasHint: hasHint})
		}
		return items, nil
	})
	return services.ClassifyFeatures(items)
}

// hintOf reads the icon class of a feature item. A failed lookup means no
// hint and does not affect the other items.
func (e *Extractor) hintOf(item dom.Node) (hint string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("[extractor] feature icon lookup failed: %v", r)
			hint, ok = "", false
		}
	}()

	icon, found := item.Find(FeatureIconPattern)
	if !found {
		return "", false
	}
	return icon.Attr("class")
}

// attempt runs a best-effort field query. Any error or panic yields
// fallback, logged at debug level.
func attempt[T any](e *Extractor, field string, fallback T, query func() (T, error)) (value T) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("[extractor] %v", &ScrapeError{Level: LevelField, What: field, Err: panicError(r)})
			value = fallback
		}
	}()

	v, err := query()
	if err != nil {
		e.logger.Debug("[extractor] %v", &ScrapeError{Level: LevelField, What: field, Err: err})
		return fallback
	}
	return v
}

func textQuery(node dom.Node, p dom.Pattern) func() (string, error) {
	return func() (string, error) {
		found, ok := node.Find(p)
		if !ok {
			return "", notFound(p.Name)
		}
		return strings.TrimSpace(found.Text()), nil
	}
}

func priceOf(node dom.Node, p dom.Pattern) func() (models.Number, error) {
	return func() (models.Number, error) {
		text, err := textQuery(node, p)()
		if err != nil {
			return models.UnknownNumber(), err
		}
		return services.NormalizePrice(text), nil
	}
}

func linkOf(node dom.Node, pageURL string) func() (string, error) {
	return func() (string, error) {
		anchor, ok := node.Find(LinkPattern)
		if !ok {
			return "", notFound(LinkPattern.Name)
		}
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return "", notFound(LinkPattern.Name + " href")
		}
		return resolveURL(pageURL, strings.TrimSpace(href))
	}
}

// resolveURL makes href absolute relative to the page it was found on.
func resolveURL(pageURL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	if ref.IsAbs() || pageURL == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url %q: %w", pageURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
