package api

import (
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/pagestats/internal/domain"
)

// PageJSON is the wire form of a page. URL and update time stay internal.
type PageJSON struct {
	PageID int64    `json:"page_id"`
	H1     int      `json:"h1"`
	H2     int      `json:"h2"`
	H3     int      `json:"h3"`
	Links  []string `json:"a"`
}

// NewPageJSON converts p, rendering missing links as [].
func NewPageJSON(p *domain.Page) PageJSON {
	return PageJSON{
		PageID: p.ID,
		H1:     p.H1,
		H2:     p.H2,
		H3:     p.H3,
		Links:  nonNilLinks(p.Links),
	}
}

// EncodePage marshals p in its wire form.
func EncodePage(p *domain.Page) ([]byte, error) {
	data, err := json.Marshal(NewPageJSON(p))
	if err != nil {
		return nil, fmt.Errorf("encode page %d: %w", p.ID, err)
	}
	return data, nil
}

// DecodePage parses the wire form back into a page. URL and UpdatedAt are
// left zero.
func DecodePage(data []byte) (*domain.Page, error) {
	var pj PageJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &domain.Page{
		ID:    pj.PageID,
		H1:    pj.H1,
		H2:    pj.H2,
		H3:    pj.H3,
		Links: nonNilLinks(pj.Links),
	}, nil
}

func nonNilLinks(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
