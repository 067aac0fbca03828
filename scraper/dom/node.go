package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is one element of a rendered document that can be queried further.
// Find and FindAll never panic on a miss; callers must handle both the
// found and not-found case.
type Node interface {
	// Find returns the first descendant matching p in document order.
	Find(p Pattern) (Node, bool)
	// FindAll returns every descendant matching p in document order.
	FindAll(p Pattern) []Node
	// Text returns the element's text with whitespace runs collapsed.
	Text() string
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
}

// selectionNode is a Node backed by a single-element goquery selection.
type selectionNode struct {
	sel *goquery.Selection
}

// Parse reads an HTML document and returns its root node.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return FromSelection(doc.Selection), nil
}

// ParseString is Parse for an in-memory document.
func ParseString(html string) (Node, error) {
	return Parse(strings.NewReader(html))
}

// FromSelection wraps an existing goquery selection.
func FromSelection(sel *goquery.Selection) Node {
	return selectionNode{sel: sel}
}

func (n selectionNode) Find(p Pattern) (Node, bool) {
	m, err := p.compiled()
	if err != nil {
		return nil, false
	}
	found := n.sel.FindMatcher(m)
	if found.Length() == 0 {
		return nil, false
	}
	return selectionNode{sel: found.First()}, true
}

func (n selectionNode) FindAll(p Pattern) []Node {
	m, err := p.compiled()
	if err != nil {
		return nil
	}
	found := n.sel.FindMatcher(m)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: s})
	})
	return nodes
}

func (n selectionNode) Text() string {
	return strings.Join(strings.Fields(n.sel.Text()), " ")
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}
