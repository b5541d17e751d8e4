package extraction

import (
	"net/url"
	"strings"

	"github.com/williampepple1/selector-scraper/pkg/models"
)

const hrefAttribute = "href"

var controlChars = strings.NewReplacer("\t", "", "\n", "", "\r", "")

// Render turns one matched node into the decorated value of leaf. Relative
// href values are resolved against pageURL.
func Render(node Node, leaf *models.Leaf, pageURL string) string {
	value, _ := render(node, leaf, pageURL)
	return value
}

// render reports whether the empty-value fallback was used.
func render(node Node, leaf *models.Leaf, pageURL string) (string, bool) {
	value, ok := source(node, leaf.Attribute)
	if ok {
		value = normalize(value)
		ok = value != ""
	}

	if ok && leaf.Attribute == hrefAttribute {
		value = resolveLink(value, pageURL)
	}

	if !ok {
		value = EmptyValue(leaf.Selector, leaf.Attribute)
	}

	return leaf.Before + value + leaf.After, !ok
}

func source(node Node, attribute string) (string, bool) {
	if attribute != "" {
		return node.Attr(attribute)
	}
	return node.Text()
}

func normalize(value string) string {
	return controlChars.Replace(strings.TrimSpace(value))
}

// resolveLink leaves ref untouched when either side does not parse.
func resolveLink(ref, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	target, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(target).String()
}
