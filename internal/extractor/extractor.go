// Package extractor counts headings and collects link targets in HTML.
package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/pagestats/internal/domain"
)

const (
	h1Selector     = "h1"
	h2Selector     = "h2"
	h3Selector     = "h3"
	anchorSelector = "a[href]"
)

// Extract parses content and reports h1/h2/h3 counts and the raw href of
// every anchor that has one, in document order. Malformed markup is
// repaired the way a browser would.
func Extract(content string) (domain.ExtractionResult, error) {
	return ExtractReader(strings.NewReader(content))
}

// ExtractReader is Extract for a stream. The reader must yield UTF-8.
func ExtractReader(r io.Reader) (domain.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("parse html: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument extracts from an already parsed document.
func FromDocument(doc *goquery.Document) domain.ExtractionResult {
	anchors := doc.Find(anchorSelector)

	links := make([]string, 0, anchors.Length())
	anchors.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
	})

	return domain.ExtractionResult{
		H1:    doc.Find(h1Selector).Length(),
		H2:    doc.Find(h2Selector).Length(),
		H3:    doc.Find(h3Selector).Length(),
		Links: links,
	}
}
