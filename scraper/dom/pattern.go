// Package dom implements structural queries over a rendered HTML document.
//
// Lookups are described by Pattern values: a name plus an ordered list of
// alternative predicates. A pattern matches every element that satisfies
// any of its alternatives, and single lookups return the first such
// element in document order.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Predicate matches elements whose attribute contains a substring.
type Predicate struct {
	// Tag restricts the element name. Empty matches any element.
	Tag string
	// Attr is the inspected attribute, "class" when empty.
	Attr string
	// Contains is the substring the attribute value must contain.
	// Empty only checks the tag.
	Contains string
	// Within requires the element to be a descendant of an element
	// matching this predicate.
	Within *Predicate
}

// ClassContains matches any element whose class attribute contains s.
func ClassContains(s string) Predicate {
	return Predicate{Contains: s}
}

// TagClassContains matches tag elements whose class attribute contains s.
func TagClassContains(tag, s string) Predicate {
	return Predicate{Tag: tag, Contains: s}
}

// Tag matches elements by name only.
func Tag(tag string) Predicate {
	return Predicate{Tag: tag}
}

// Inside returns a copy of p that only matches below parent.
func (p Predicate) Inside(parent Predicate) Predicate {
	p.Within = &parent
	return p
}

// Selector renders the predicate as a CSS selector.
func (p Predicate) Selector() string {
	var b strings.Builder
	if p.Within != nil {
		b.WriteString(p.Within.Selector())
		b.WriteByte(' ')
	}
	if p.Tag != "" {
		b.WriteString(p.Tag)
	}
	if p.Contains != "" {
		attr := p.Attr
		if attr == "" {
			attr = "class"
		}
		fmt.Fprintf(&b, "[%s*='%s']", attr, strings.ReplaceAll(p.Contains, "'", `\'`))
	}
	if b.Len() == 0 || strings.HasSuffix(b.String(), " ") {
		b.WriteByte('*')
	}
	return b.String()
}

// Pattern is a named structural lookup with alternative predicates.
type Pattern struct {
	Name         string
	Alternatives []Predicate

	matcher goquery.Matcher
}

// NewPattern builds and compiles a pattern. It returns an error if the
// predicates do not form a valid selector.
func NewPattern(name string, alternatives ...Predicate) (Pattern, error) {
	p := Pattern{Name: name, Alternatives: alternatives}
	if len(alternatives) == 0 {
		return p, fmt.Errorf("dom: pattern %q has no alternatives", name)
	}
	sel, err := cascadia.Compile(p.Selector())
	if err != nil {
		return p, fmt.Errorf("dom: pattern %q: %w", name, err)
	}
	p.matcher = sel
	return p, nil
}

// MustPattern is like NewPattern but panics on error. It is meant for
// package-level pattern tables.
func MustPattern(name string, alternatives ...Predicate) Pattern {
	p, err := NewPattern(name, alternatives...)
	if err != nil {
		panic(err)
	}
	return p
}

// Selector renders the pattern as a CSS selector group.
func (p Pattern) Selector() string {
	parts := make([]string, 0, len(p.Alternatives))
	for _, a := range p.Alternatives {
		parts = append(parts, a.Selector())
	}
	return strings.Join(parts, ", ")
}

func (p Pattern) String() string {
	return p.Name
}

// compiled returns the pattern's matcher, compiling it on first use for
// patterns built as struct literals.
func (p Pattern) compiled() (goquery.Matcher, error) {
	if p.matcher != nil {
		return p.matcher, nil
	}
	if len(p.Alternatives) == 0 {
		return nil, fmt.Errorf("dom: pattern %q has no alternatives", p.Name)
	}
	sel, err := cascadia.Compile(p.Selector())
	if err != nil {
		return nil, fmt.Errorf("dom: pattern %q: %w", p.Name, err)
	}
	return sel, nil
}
