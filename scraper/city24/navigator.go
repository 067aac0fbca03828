package city24

import (
	"context"
	"errors"
	"time"

	"apartment-scraper/models"
	"apartment-scraper/scraper/browser"
	"apartment-scraper/scraper/dom"
	"apartment-scraper/utils"
)

// Browser loads a page and returns its rendered document once an element
// matching ready is present. Load must return an error wrapping
// browser.ErrLoadTimeout when that wait runs out.
type Browser interface {
	Load(ctx context.Context, url string, ready dom.Pattern, timeout time.Duration) (dom.Node, error)
	Close() error
}

// PageStatus is the outcome of one page.
type PageStatus string

const (
	PageOK       PageStatus = "ok"
	PageTimedOut PageStatus = "load-timeout"
	PageFailed   PageStatus = "failed"
)

// PageResult carries the records of one page and how the page went.
type PageResult struct {
	Page    int
	URL     string
	Status  PageStatus
	Found   int
	Records []*models.ListingRecord
	Err     error
}

// Navigator loads one search results page and extracts its listings.
type Navigator struct {
	browser   Browser
	extractor *Extractor
	pageURL   func(page int) string
	timeout   time.Duration
	logger    *utils.Logger
}

func NewNavigator(b Browser, extractor *Extractor, pageURL func(page int) string, timeout time.Duration, logger *utils.Logger) *Navigator {
	return &Navigator{
		browser:   b,
		extractor: extractor,
		pageURL:   pageURL,
		timeout:   timeout,
		logger:    logger,
	}
}

// ProcessPage loads the page with the given index and returns its records
// in document order. Load timeouts and any other failure give an empty
// result; the error is recorded on the result and logged, never returned.
func (n *Navigator) ProcessPage(ctx context.Context, page int) (result PageResult) {
	result = PageResult{Page: page, URL: n.pageURL(page), Status: PageOK}

	defer func() {
		if r := recover(); r != nil {
			result.Status = PageFailed
			result.Records = nil
			result.Err = &ScrapeError{Level: LevelPage, Page: page, What: "processing", Err: panicError(r)}
			n.logger.Error("[navigator] %v", result.Err)
		}
	}()

	root, err := n.browser.Load(ctx, result.URL, ListingPattern, n.timeout)
	if err != nil {
		result.Err = &ScrapeError{Level: LevelPage, Page: page, What: "load", Err: err}
		if errors.Is(err, browser.ErrLoadTimeout) {
			result.Status = PageTimedOut
			n.logger.Warn("[navigator] Timed out waiting for page %d", page)
		} else {
			result.Status = PageFailed
			n.logger.Error("[navigator] Error on page %d: %v", page, err)
		}
		return result
	}

	listings := root.FindAll(ListingPattern)
	result.Found = len(listings)
	n.logger.Debug("[navigator] Page %d: %d listing nodes", page, len(listings))

	for _, listing := range listings {
		if record := n.extractor.Extract(listing, result.URL); record != nil {
			result.Records = append(result.Records, record)
		}
	}

	return result
}
