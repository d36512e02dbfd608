// Package events defines the page lifecycle events published to Redis
// Streams. Consumers decode the JSON stored under the "event" field.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the default stream for page events.
const StreamName = "page-events"

// EventType names a page lifecycle transition.
type EventType string

const (
	// PageCreated is emitted the first time a URL is recorded.
	PageCreated EventType = "PAGE_CREATED"
	// PageRefreshed is emitted when an existing URL is fetched again.
	PageRefreshed EventType = "PAGE_REFRESHED"
)

// PageEvent is the wire envelope.
type PageEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	PageID    int64     `json:"page_id"`
	URL       string    `json:"url"`
	H1        int       `json:"h1"`
	H2        int       `json:"h2"`
	H3        int       `json:"h3"`
	LinkCount int       `json:"link_count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPageEvent stamps a fresh id and the current UTC time.
func NewPageEvent(t EventType, pageID int64, url string) PageEvent {
	return PageEvent{
		EventID:   uuid.New(),
		EventType: t,
		PageID:    pageID,
		URL:       url,
		Timestamp: time.Now().UTC(),
	}
}
