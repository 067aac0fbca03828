package models

import (
	"strconv"
	"time"
)

// Unknown is the serialized form of a field that was present in the
// model but could not be resolved from the page.
const Unknown = "N/A"

// Number is a normalized numeric value that may be Unknown.
// Integer records whether the source text carried no fractional separator.
type Number struct {
	Value   float64
	Integer bool
	Valid   bool
}

// UnknownNumber returns the Unknown sentinel for numeric fields.
func UnknownNumber() Number { return Number{} }

// IntNumber builds a known integer value.
func IntNumber(v int64) Number {
	return Number{Value: float64(v), Integer: true, Valid: true}
}

// FloatNumber builds a known fractional value.
func FloatNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

// String renders the value the way it is written to the output sink.
func (n Number) String() string {
	if !n.Valid {
		return Unknown
	}
	if n.Integer {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// RawFeatureItem is one entry of a listing's feature list before
// classification. Hint is the icon class of the entry, if any.
type RawFeatureItem struct {
	Text    string
	Hint    string
	HasHint bool
}

// Features holds the classified secondary attributes of a listing.
// Every field is either the raw text or Unknown.
type Features struct {
	Size  string
	Rooms string
	Floor string
	Year  string
}

// UnknownFeatures returns a Features value with all slots Unknown.
func UnknownFeatures() Features {
	return Features{Size: Unknown, Rooms: Unknown, Floor: Unknown, Year: Unknown}
}

// ListingRecord is one normalized apartment listing. It is built once by
// the extractor and not mutated afterwards.
type ListingRecord struct {
	Address      string
	PriceTotal   Number
	PricePerArea Number
	AreaName     string
	Size         string
	Rooms        string
	Floor        string
	Year         string
	Link         string
}

// CSVHeader is the column order of the tabular output.
var CSVHeader = []string{
	"Address", "General Price", "Price/m", "Area", "Size", "Rooms", "Floor", "Year", "Link",
}

// Row returns the record as CSV cells in CSVHeader order.
func (r *ListingRecord) Row() []string {
	return []string{
		r.Address,
		r.PriceTotal.String(),
		r.PricePerArea.String(),
		r.AreaName,
		r.Size,
		r.Rooms,
		r.Floor,
		r.Year,
		r.Link,
	}
}

// CrawlResult accumulates records across pages in page order, then
// in-page document order. Duplicates are kept.
type CrawlResult struct {
	Records []*ListingRecord
	Stats   CrawlStats
}

// Append adds a page's records to the end of the result.
func (c *CrawlResult) Append(records ...*ListingRecord) {
	c.Records = append(c.Records, records...)
}

// Len returns the number of accumulated records.
func (c *CrawlResult) Len() int { return len(c.Records) }

// CrawlStats counts outcomes of one crawl run.
type CrawlStats struct {
	PagesRequested int
	PagesOK        int
	PagesTimedOut  int
	PagesFailed    int
	ListingsFound  int
	ListingsKept   int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// ListingsDropped is the number of listing nodes that did not produce a record.
func (s CrawlStats) ListingsDropped() int {
	return s.ListingsFound - s.ListingsKept
}

// InsightReport holds the computed analytics over a crawl result.
type InsightReport struct {
	TotalListings     int
	PricedListings    int
	AveragePrice      float64
	MinPrice          float64
	MaxPrice          float64
	AveragePricePerM2 float64
	MostExpensive     *ListingRecord
	ListingsByArea    map[string]int
}
