package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jonesrussell/pagestats/internal/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index collision.
const uniqueViolation = "23505"

const pageColumns = "id, url, h1, h2, h3, links, updated_at"

// PageRepository reads and writes the pages table.
type PageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Ping checks database connectivity.
func (r *PageRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetByID returns domain.ErrPageNotFound when no row has id.
func (r *PageRepository) GetByID(ctx context.Context, id int64) (*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1`

	page, err := scanPage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %d: %w", id, domain.ErrPageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query page %d: %w", id, err)
	}
	return page, nil
}

// FindByURL matches url exactly. It returns domain.ErrPageNotFound when
// nothing is stored for it.
func (r *PageRepository) FindByURL(ctx context.Context, url string) (*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE url = $1`

	page, err := scanPage(r.db.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %q: %w", url, domain.ErrPageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query page by url: %w", err)
	}
	return page, nil
}

// Insert stores a new page and fills in its ID and UpdatedAt. A URL that
// is already stored yields domain.ErrURLConflict.
func (r *PageRepository) Insert(ctx context.Context, page *domain.Page) error {
	query := `
		INSERT INTO pages (url, h1, h2, h3, links, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		page.URL,
		page.H1,
		page.H2,
		page.H3,
		pq.Array(linksOrEmpty(page.Links)),
	).Scan(&page.ID, &page.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert page %q: %w", page.URL, domain.ErrURLConflict)
		}
		return fmt.Errorf("insert page: %w", err)
	}
	return nil
}

// Update overwrites counts, links and the timestamp of an existing page.
// The URL column is never written.
func (r *PageRepository) Update(ctx context.Context, page *domain.Page) error {
	query := `
		UPDATE pages
		SET h1 = $2, h2 = $3, h3 = $4, links = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		page.ID,
		page.H1,
		page.H2,
		page.H3,
		pq.Array(linksOrEmpty(page.Links)),
	).Scan(&page.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("page %d: %w", page.ID, domain.ErrPageNotFound)
	}
	if err != nil {
		return fmt.Errorf("update page %d: %w", page.ID, err)
	}
	return nil
}

func scanPage(row *sql.Row) (*domain.Page, error) {
	var page domain.Page
	var links pq.StringArray

	if err := row.Scan(
		&page.ID,
		&page.URL,
		&page.H1,
		&page.H2,
		&page.H3,
		&links,
		&page.UpdatedAt,
	); err != nil {
		return nil, err
	}

	page.Links = linksOrEmpty(links)
	return &page, nil
}

func linksOrEmpty(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
