// Package dom adapts parsed HTML documents to the extraction.Node interface.
//
// Two selector syntaxes are supported: CSS selectors, backed by goquery, and
// XPath expressions, backed by htmlquery. Both providers operate on a static
// snapshot of the page; the browser navigator serialises the rendered DOM
// before it reaches this package.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"

	"github.com/williampepple1/selector-scraper/internal/extraction"
)

// Syntax selects how selectors in the configuration are interpreted
type Syntax string

const (
	CSS   Syntax = "css"
	XPath Syntax = "xpath"
)

// minConfidence is the chardet confidence below which detection is ignored.
const minConfidence = 50

// ParseSyntax validates a syntax name
func ParseSyntax(name string) (Syntax, error) {
	switch s := Syntax(strings.ToLower(strings.TrimSpace(name))); s {
	case CSS, XPath:
		return s, nil
	case "":
		return CSS, nil
	default:
		return "", fmt.Errorf("unsupported selector syntax %q", name)
	}
}

// Parse decodes body to UTF-8 and returns the document root for syntax
func Parse(body []byte, contentType string, syntax Syntax) (extraction.Node, error) {
	r := decode(body, contentType)

	switch syntax {
	case XPath:
		root, err := htmlquery.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return NewXPathNode(root), nil
	default:
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return NewCSSNode(doc.Selection), nil
	}
}

// decode honours a BOM or a declared charset, and falls back to chardet when
// the document declares nothing.
func decode(body []byte, contentType string) io.Reader {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name == "windows-1252" {
		if result, err := chardet.NewHtmlDetector().DetectBest(body); err == nil && result.Confidence >= minConfidence {
			if detected, detectedName := charset.Lookup(result.Charset); detected != nil {
				enc, name = detected, detectedName
			}
		}
	}

	if name == "utf-8" {
		return bytes.NewReader(body)
	}
	return enc.NewDecoder().Reader(bytes.NewReader(body))
}
