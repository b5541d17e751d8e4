package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/williampepple1/selector-scraper/internal/extraction"
	"github.com/williampepple1/selector-scraper/pkg/models"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		node    *fakeNode
		leaf    models.Leaf
		pageURL string
		want    string
	}{
		{
			name:    "absolute href from root relative path",
			node:    el("a").withAttr("href", "/a/b"),
			leaf:    models.Leaf{Selector: "a", Attribute: "href"},
			pageURL: "https://x.test/p",
			want:    "https://x.test/a/b",
		},
		{
			name:    "href relative to the page directory",
			node:    el("a").withAttr("href", "next?page=2"),
			leaf:    models.Leaf{Selector: "a", Attribute: "href"},
			pageURL: "https://x.test/list/all",
			want:    "https://x.test/list/next?page=2",
		},
		{
			name:    "href is normalized before resolution",
			node:    el("a").withAttr("href", "  /a\n/b\t"),
			leaf:    models.Leaf{Selector: "a", Attribute: "href"},
			pageURL: "https://x.test/p",
			want:    "https://x.test/a/b",
		},
		{
			name:    "absolute href is kept",
			node:    el("a").withAttr("href", "https://y.test/z"),
			leaf:    models.Leaf{Selector: "a", Attribute: "href"},
			pageURL: "https://x.test/p",
			want:    "https://y.test/z",
		},
		{
			name:    "unparsable base leaves href alone",
			node:    el("a").withAttr("href", "/a"),
			leaf:    models.Leaf{Selector: "a", Attribute: "href"},
			pageURL: "://bad",
			want:    "/a",
		},
		{
			name:    "other attributes are not resolved",
			node:    el("img").withAttr("src", "/logo.png"),
			leaf:    models.Leaf{Selector: "img", Attribute: "src"},
			pageURL: "https://x.test/p",
			want:    "/logo.png",
		},
		{
			name: "decoration",
			node: el("b").withText("V"),
			leaf: models.Leaf{Selector: "b", Before: "P:", After: ";"},
			want: "P:V;",
		},
		{
			name: "text is trimmed and stripped of tabs and newlines",
			node: el("h1").withText("  Hi\n"),
			leaf: models.Leaf{Selector: "h1"},
			want: "Hi",
		},
		{
			name: "inner spaces survive",
			node: el("p").withText("\tone\r\n two  "),
			leaf: models.Leaf{Selector: "p"},
			want: "one two",
		},
		{
			name: "missing attribute",
			node: el("a"),
			leaf: models.Leaf{Selector: "a.more", Attribute: "data-id"},
			want: "Could not get a value for a.more by data-id",
		},
		{
			name: "whitespace only text",
			node: el("p").withText(" \n "),
			leaf: models.Leaf{Selector: "p"},
			want: "Could not get a value for p by textContent",
		},
		{
			name: "fallback is decorated",
			node: el("p"),
			leaf: models.Leaf{Selector: "p", Before: "<", After: ">"},
			want: "<Could not get a value for p by textContent>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := tt.leaf
			assert.Equal(t, tt.want, extraction.Render(tt.node, &leaf, tt.pageURL))
		})
	}
}

func TestFallbackMessages(t *testing.T) {
	assert.Equal(t, "Could not find by selector: .missing", extraction.NoMatch(".missing"))
	assert.Equal(t, "Could not get a value for h1 by textContent", extraction.EmptyValue("h1", ""))
	assert.Equal(t, "Could not get a value for a by href", extraction.EmptyValue("a", "href"))
}
