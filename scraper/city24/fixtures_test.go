package city24

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apartment-scraper/models"
	"apartment-scraper/scraper/browser"
	"apartment-scraper/scraper/dom"
)

const pageURLPrefix = "https://www.city24.ee/en/real-estate-search/apartments-for-sale/tallinn/id=181-parish/pg="

func testPageURL(page int) string {
	return fmt.Sprintf("%s%d", pageURLPrefix, page)
}

// listingHTML renders one well-formed listing: address, both prices, area,
// size, rooms, floor and link. Year is left out.
func listingHTML(id int, address string) string {
	return fmt.Sprintf(`
<div class="object-wrapper">
  <a href="/en/real-estate/apartments-for-sale/tallinn/%d">
    <span class="object-address">%s</span>
  </a>
  <div class="object-price">
    <span class="object-price__main-price">185 000 €</span>
    <span class="object-price__m2-price">3 426 €/m²</span>
  </div>
  <span class="object_area">Kesklinn</span>
  <div class="object__features">
    <ul class="object__main-features">
      <li>54 m²</li>
      <li><span class="icon icon-door"></span>3</li>
      <li><span class="icon icon-stairs"></span>5/9</li>
    </ul>
  </div>
</div>`, id, address)
}

func pageHTML(listings ...string) string {
	return "<html><body><main>" + strings.Join(listings, "\n") + "</main></body></html>"
}

func parseNode(t *testing.T, html string) dom.Node {
	t.Helper()
	root, err := dom.ParseString(html)
	require.NoError(t, err)
	return root
}

// firstListing returns the first listing node of a document.
func firstListing(t *testing.T, html string) dom.Node {
	t.Helper()
	nodes := parseNode(t, pageHTML(html)).FindAll(ListingPattern)
	require.NotEmpty(t, nodes)
	return nodes[0]
}

// fakeBrowser serves canned pages by URL. URLs without a page time out.
type fakeBrowser struct {
	pages  map[string]string
	errs   map[string]error
	panics map[string]bool

	loads  []string
	ready  []string
	closes int
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		pages:  make(map[string]string),
		errs:   make(map[string]error),
		panics: make(map[string]bool),
	}
}

func (f *fakeBrowser) Load(_ context.Context, url string, ready dom.Pattern, timeout time.Duration) (dom.Node, error) {
	f.loads = append(f.loads, url)
	f.ready = append(f.ready, ready.Name)

	if f.panics[url] {
		panic("renderer crashed")
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s after %v", browser.ErrLoadTimeout, ready.Name, timeout)
	}
	return dom.ParseString(html)
}

func (f *fakeBrowser) Close() error {
	f.closes++
	return nil
}

// faultyNode wraps a real node and panics when queried with one pattern.
type faultyNode struct {
	dom.Node
	panicOn string
}

func (n faultyNode) Find(p dom.Pattern) (dom.Node, bool) {
	if p.Name == n.panicOn {
		panic("lookup of " + p.Name + " failed")
	}
	found, ok := n.Node.Find(p)
	if !ok {
		return nil, false
	}
	return faultyNode{Node: found, panicOn: n.panicOn}, true
}

func (n faultyNode) FindAll(p dom.Pattern) []dom.Node {
	if p.Name == n.panicOn {
		panic("lookup of " + p.Name + " failed")
	}
	var out []dom.Node
	for _, found := range n.Node.FindAll(p) {
		out = append(out, faultyNode{Node: found, panicOn: n.panicOn})
	}
	return out
}

// recordingSink captures what the crawler hands to the output.
type recordingSink struct {
	writes   [][]*models.ListingRecord
	writeErr error
	panicMsg string
}

func (s *recordingSink) Write(records []*models.ListingRecord) error {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	s.writes = append(s.writes, records)
	return s.writeErr
}

func (s *recordingSink) Close() error { return nil }
