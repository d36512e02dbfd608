// Package events publishes page lifecycle events to Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/pagestats/infrastructure/circuitbreaker"
	infraevents "github.com/jonesrussell/pagestats/infrastructure/events"
	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/infrastructure/retry"
	"github.com/jonesrussell/pagestats/internal/domain"
)

// asyncPublishTimeout bounds each background XADD.
const asyncPublishTimeout = 5 * time.Second

var publishRetry = retry.Config{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     time.Second,
}

// Publisher appends events to a stream. A nil *Publisher is valid and
// drops everything, so callers never need to check whether events are on.
type Publisher struct {
	client  *redis.Client
	stream  string
	log     infralogger.Logger
	breaker *circuitbreaker.Breaker
	wg      sync.WaitGroup
}

// NewPublisher returns nil if client is nil.
func NewPublisher(client *redis.Client, stream string, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if stream == "" {
		stream = infraevents.StreamName
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	breaker := circuitbreaker.New(circuitbreaker.Config{
		OnStateChange: func(from, to circuitbreaker.State) {
			log.Warn("Event publisher circuit changed state",
				infralogger.String("from", from.String()),
				infralogger.String("to", to.String()),
			)
		},
	})
	return &Publisher{client: client, stream: stream, log: log, breaker: breaker}
}

// Publish XADDs event under the "event" field as JSON.
func (p *Publisher) Publish(ctx context.Context, event infraevents.PageEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"event": string(payload)},
	})
	if err = result.Err(); err != nil {
		return fmt.Errorf("publish to stream %s: %w", p.stream, err)
	}

	p.log.Debug("Published page event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.Int64("page_id", event.PageID),
		infralogger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishPage emits PAGE_CREATED or PAGE_REFRESHED for page in the
// background. Failures are logged and never reach the caller.
func (p *Publisher) PublishPage(page *domain.Page, created bool) {
	if p == nil || page == nil {
		return
	}

	eventType := infraevents.PageRefreshed
	if created {
		eventType = infraevents.PageCreated
	}

	event := infraevents.NewPageEvent(eventType, page.ID, page.URL)
	event.H1, event.H2, event.H3 = page.H1, page.H2, page.H3
	event.LinkCount = len(page.Links)

	p.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		err := p.breaker.Execute(func() error {
			return retry.Do(ctx, publishRetry, func(ctx context.Context) error {
				return p.Publish(ctx, event)
			})
		})
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			p.log.Debug("Event dropped, publisher circuit open",
				infralogger.Int64("page_id", event.PageID),
			)
			return
		}
		if err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.Int64("page_id", event.PageID),
				infralogger.Error(err),
			)
		}
	})
}

// Wait blocks until background publishes finish.
func (p *Publisher) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.client.Ping(ctx).Err()
}

// Close waits for pending publishes and closes the Redis client.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.wg.Wait()
	return p.client.Close()
}
