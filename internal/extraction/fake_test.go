package extraction_test

import (
	"github.com/williampepple1/selector-scraper/internal/extraction"
)

// fakeNode is a synthetic document node. Selectors are matched by tag name
// against all descendants, depth first, which is document order.
type fakeNode struct {
	tag      string
	text     *string
	attrs    map[string]string
	children []*fakeNode
	queries  int
}

func el(tag string, children ...*fakeNode) *fakeNode {
	return &fakeNode{tag: tag, children: children}
}

func (n *fakeNode) withText(text string) *fakeNode {
	n.text = &text
	return n
}

func (n *fakeNode) withAttr(name, value string) *fakeNode {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[name] = value
	return n
}

func (n *fakeNode) QueryAll(selector string) []extraction.Node {
	n.queries++
	var found []extraction.Node
	var visit func(*fakeNode)
	visit = func(node *fakeNode) {
		for _, child := range node.children {
			if child.tag == selector {
				found = append(found, child)
			}
			visit(child)
		}
	}
	visit(n)
	return found
}

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *fakeNode) Text() (string, bool) {
	if n.text == nil {
		return "", false
	}
	return *n.text, true
}
