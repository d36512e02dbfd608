//nolint:testpackage // Testing internal repository requires same package access
package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagestats/internal/domain"
)

var pageRowColumns = []string{"id", "url", "h1", "h2", "h3", "links", "updated_at"}

func newMockRepository(t *testing.T) (*PageRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		_ = db.Close()
	})

	return NewPageRepository(db), mock
}

func TestPageRepository_GetByID(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	updatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM pages WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(pageRowColumns).
			AddRow(1, "http://google.com", 1, 1, 1, `{http://google.com,"#"}`, updatedAt))

	page, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, &domain.Page{
		ID:        1,
		URL:       "http://google.com",
		H1:        1,
		H2:        1,
		H3:        1,
		Links:     []string{"http://google.com", "#"},
		UpdatedAt: updatedAt,
	}, page)
}

func TestPageRepository_GetByID_EmptyLinks(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM pages WHERE id = \\$1").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(pageRowColumns).
			AddRow(2, "http://empty.example", 0, 0, 0, "{}", time.Now()))

	page, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, page.Links)
	assert.Empty(t, page.Links)
}

func TestPageRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM pages WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(pageRowColumns))

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestPageRepository_GetByID_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	dbErr := errors.New("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM pages").WillReturnError(dbErr)

	_, err := repo.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, domain.ErrPageNotFound)
}

func TestPageRepository_FindByURL(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM pages WHERE url = \\$1").
		WithArgs("https://example.com").
		WillReturnRows(sqlmock.NewRows(pageRowColumns).
			AddRow(5, "https://example.com", 2, 0, 1, `{/a,/b,/a}`, time.Now()))

	page, err := repo.FindByURL(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.ID)
	assert.Equal(t, []string{"/a", "/b", "/a"}, page.Links)
}

func TestPageRepository_FindByURL_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM pages WHERE url = \\$1").
		WithArgs("https://missing.example").
		WillReturnRows(sqlmock.NewRows(pageRowColumns))

	_, err := repo.FindByURL(context.Background(), "https://missing.example")
	require.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestPageRepository_Insert(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	updatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO pages").
		WithArgs("http://google.com", 1, 1, 1, pq.Array([]string{"http://google.com"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(1, updatedAt))

	page := &domain.Page{URL: "http://google.com", H1: 1, H2: 1, H3: 1, Links: []string{"http://google.com"}}
	require.NoError(t, repo.Insert(context.Background(), page))

	assert.Equal(t, int64(1), page.ID)
	assert.Equal(t, updatedAt, page.UpdatedAt)
}

func TestPageRepository_Insert_NilLinksStoredAsEmptyArray(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO pages").
		WithArgs("http://x.example", 0, 0, 0, "{}").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(3, time.Now()))

	require.NoError(t, repo.Insert(context.Background(), &domain.Page{URL: "http://x.example"}))
}

func TestPageRepository_Insert_URLConflict(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO pages").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Insert(context.Background(), &domain.Page{URL: "http://dup.example"})
	require.ErrorIs(t, err, domain.ErrURLConflict)
}

func TestPageRepository_Insert_OtherError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO pages").
		WillReturnError(&pq.Error{Code: "23514", Message: "check constraint"})

	err := repo.Insert(context.Background(), &domain.Page{URL: "http://x.example", H1: -1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrURLConflict)
}

func TestPageRepository_Update(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	updatedAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE pages").
		WithArgs(int64(7), 3, 2, 1, pq.Array([]string{"b", "a"})).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	page := &domain.Page{ID: 7, URL: "https://example.com", H1: 3, H2: 2, H3: 1, Links: []string{"b", "a"}}
	require.NoError(t, repo.Update(context.Background(), page))
	assert.Equal(t, updatedAt, page.UpdatedAt)
}

func TestPageRepository_Update_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)

	mock.ExpectQuery("UPDATE pages").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), &domain.Page{ID: 99})
	require.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestPageRepository_Ping(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	require.NoError(t, NewPageRepository(db).Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
