package city24

import "apartment-scraper/scraper/dom"

// Structural patterns for city24 search result pages. Each pattern lists
// the class fragments the site has used for the same element; any of them
// matches.
var (
	ListingPattern = dom.MustPattern("listing",
		dom.ClassContains("object-wrapper"),
		dom.ClassContains("object_info"),
	)

	AddressPattern = dom.MustPattern("address",
		dom.ClassContains("address"),
		dom.ClassContains("heading"),
	)

	PriceTotalPattern = dom.MustPattern("price_total",
		dom.ClassContains("object-price__main-price"),
		dom.ClassContains("cost"),
	)

	PricePerAreaPattern = dom.MustPattern("price_per_area",
		dom.ClassContains("object-price__m2-price"),
		dom.ClassContains("cost"),
	)

	AreaPattern = dom.MustPattern("area_name",
		dom.ClassContains("object_area"),
		dom.ClassContains("area"),
	)

	LinkPattern = dom.MustPattern("link",
		dom.Predicate{Tag: "a", Attr: "href", Contains: "/en/"},
	)

	FeaturesPattern = dom.MustPattern("features",
		dom.TagClassContains("ul", "object__main-features").
			Inside(dom.TagClassContains("div", "object__features")),
	)

	FeatureItemPattern = dom.MustPattern("feature_item", dom.Tag("li"))

	FeatureIconPattern = dom.MustPattern("feature_icon", dom.Tag("span"))
)

// Patterns returns every pattern used by the extractor, for auditing.
func Patterns() []dom.Pattern {
	return []dom.Pattern{
		ListingPattern,
		AddressPattern,
		PriceTotalPattern,
		PricePerAreaPattern,
		AreaPattern,
		LinkPattern,
		FeaturesPattern,
		FeatureItemPattern,
		FeatureIconPattern,
	}
}
