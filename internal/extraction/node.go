package extraction

// Node is an element of a document snapshot, or the document root itself.
// Implementations must return query results in document order and must not
// modify the underlying document.
type Node interface {
	// QueryAll returns every descendant matching selector. A selector the
	// implementation cannot compile matches nothing.
	QueryAll(selector string) []Node
	// Attr returns the value of the named attribute and whether it exists.
	Attr(name string) (string, bool)
	// Text returns the text content of the node and whether it has any.
	Text() (string, bool)
}
