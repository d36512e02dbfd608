// Package domain holds the page model and the errors the service reports.
package domain

import "time"

// Page is the stored summary of one URL.
type Page struct {
	ID        int64
	URL       string
	H1        int
	H2        int
	H3        int
	Links     []string
	UpdatedAt time.Time
}

// ExtractionResult is what the extractor finds in one document.
type ExtractionResult struct {
	H1    int
	H2    int
	H3    int
	Links []string
}

// NewPage builds an unsaved Page from an extraction result. The URL is
// attached separately once it has been validated.
func NewPage(r ExtractionResult) *Page {
	p := &Page{}
	p.Apply(r)
	return p
}

// Apply overwrites the extracted fields, leaving ID and URL alone. Links
// are copied so the page never aliases the caller's slice.
func (p *Page) Apply(r ExtractionResult) {
	p.H1 = r.H1
	p.H2 = r.H2
	p.H3 = r.H3
	p.Links = append(make([]string, 0, len(r.Links)), r.Links...)
}
