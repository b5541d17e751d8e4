package dom

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/williampepple1/selector-scraper/internal/extraction"
)

// CSSNode wraps a single-node goquery selection
type CSSNode struct {
	sel *goquery.Selection
}

// NewCSSNode creates a node from a goquery selection
func NewCSSNode(sel *goquery.Selection) *CSSNode {
	return &CSSNode{sel: sel}
}

// QueryAll returns the descendants matching a CSS selector
func (n *CSSNode) QueryAll(selector string) []extraction.Node {
	// goquery matches nothing for a selector cascadia cannot compile
	found := n.sel.Find(selector)
	nodes := make([]extraction.Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &CSSNode{sel: s})
	})
	return nodes
}

// Attr returns an attribute value
func (n *CSSNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// Text returns the combined text of the node and its descendants
func (n *CSSNode) Text() (string, bool) {
	return n.sel.Text(), true
}
