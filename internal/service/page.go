// Package service implements page creation, refresh and lookup.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/internal/domain"
	"github.com/jonesrussell/pagestats/internal/metrics"
)

// Store persists pages. Lookups report domain.ErrPageNotFound and
// Insert reports domain.ErrURLConflict.
type Store interface {
	GetByID(ctx context.Context, id int64) (*domain.Page, error)
	FindByURL(ctx context.Context, url string) (*domain.Page, error)
	Insert(ctx context.Context, page *domain.Page) error
	Update(ctx context.Context, page *domain.Page) error
}

// Fetcher downloads and extracts one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.ExtractionResult, error)
}

// EventPublisher is notified after every successful write.
type EventPublisher interface {
	PublishPage(page *domain.Page, created bool)
}

// PageService owns validation, error classification and the
// create-or-refresh decision.
type PageService struct {
	store     Store
	fetcher   Fetcher
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    infralogger.Logger
}

// NewPageService wires the collaborators. publisher and m may be nil.
func NewPageService(
	store Store,
	fetcher Fetcher,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger infralogger.Logger,
) *PageService {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &PageService{
		store:     store,
		fetcher:   fetcher,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrRefresh fetches the page named by params["url"] and stores the
// result. created reports whether a new record was made. Nothing is
// written unless the fetch succeeds.
func (s *PageService) CreateOrRefresh(ctx context.Context, params Params) (*domain.Page, bool, error) {
	log := infralogger.FromContextOr(ctx, s.logger)

	rawURL, ok := params.URL()
	if !ok || !validURL(rawURL) {
		return nil, false, &domain.ValidationError{Received: params.String()}
	}

	start := time.Now()
	result, err := s.fetcher.Fetch(ctx, rawURL)
	s.metrics.ObserveFetch(time.Since(start), err)
	if err != nil {
		log.Warn("Page fetch failed",
			infralogger.String("url", rawURL),
			infralogger.Error(err),
		)
		return nil, false, &domain.ConnectionError{URL: rawURL, Err: err}
	}

	page, created, err := s.save(ctx, rawURL, result)
	if err != nil {
		return nil, false, err
	}

	s.metrics.PageWritten(created)
	if s.publisher != nil {
		s.publisher.PublishPage(page, created)
	}

	log.Info("Page stored",
		infralogger.Int64("page_id", page.ID),
		infralogger.String("url", page.URL),
		infralogger.Bool("created", created),
	)
	return page, created, nil
}

func (s *PageService) save(ctx context.Context, rawURL string, result domain.ExtractionResult) (*domain.Page, bool, error) {
	existing, err := s.store.FindByURL(ctx, rawURL)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, result)
	case !errors.Is(err, domain.ErrPageNotFound):
		return nil, false, fmt.Errorf("find page by url: %w", err)
	}

	page := domain.NewPage(result)
	page.URL = rawURL

	err = s.store.Insert(ctx, page)
	if err == nil {
		return page, true, nil
	}
	if !errors.Is(err, domain.ErrURLConflict) {
		return nil, false, fmt.Errorf("insert page: %w", err)
	}

	// Another request stored this URL between our lookup and insert.
	infralogger.FromContextOr(ctx, s.logger).Debug("Insert lost race, refreshing existing page", infralogger.String("url", rawURL))
	existing, err = s.store.FindByURL(ctx, rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("find page after conflict: %w", err)
	}
	return s.refresh(ctx, existing, result)
}

func (s *PageService) refresh(ctx context.Context, page *domain.Page, result domain.ExtractionResult) (*domain.Page, bool, error) {
	page.Apply(result)
	if err := s.store.Update(ctx, page); err != nil {
		return nil, false, fmt.Errorf("update page %d: %w", page.ID, err)
	}
	return page, false, nil
}

// GetByID returns the stored page or a *domain.NotFoundError.
func (s *PageService) GetByID(ctx context.Context, id int64) (*domain.Page, error) {
	page, err := s.store.GetByID(ctx, id)
	if errors.Is(err, domain.ErrPageNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get page %d: %w", id, err)
	}
	return page, nil
}
