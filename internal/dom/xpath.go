package dom

import (
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/williampepple1/selector-scraper/internal/extraction"
)

// XPathNode wraps an html.Node for XPath queries. Expressions are evaluated
// with the node as context, so nested specs should use relative paths such
// as ".//li".
type XPathNode struct {
	node *html.Node
}

// NewXPathNode creates a node from a parsed html.Node
func NewXPathNode(node *html.Node) *XPathNode {
	return &XPathNode{node: node}
}

// QueryAll returns the nodes selected by an XPath expression
func (n *XPathNode) QueryAll(expr string) []extraction.Node {
	found, err := htmlquery.QueryAll(n.node, expr)
	if err != nil {
		return nil
	}
	nodes := make([]extraction.Node, 0, len(found))
	for _, node := range found {
		nodes = append(nodes, &XPathNode{node: node})
	}
	return nodes
}

// Attr returns an attribute value
func (n *XPathNode) Attr(name string) (string, bool) {
	for _, attr := range n.node.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Text returns the combined text of the node and its descendants
func (n *XPathNode) Text() (string, bool) {
	return htmlquery.InnerText(n.node), true
}
