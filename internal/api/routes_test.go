package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/internal/domain"
	"github.com/jonesrussell/pagestats/internal/fetcher"
	"github.com/jonesrussell/pagestats/internal/service"
)

// pageStore keeps pages in memory for end-to-end route tests.
type pageStore struct {
	mu    sync.Mutex
	pages []domain.Page
}

func (s *pageStore) GetByID(_ context.Context, id int64) (*domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pages {
		if s.pages[i].ID == id {
			p := s.pages[i]
			return &p, nil
		}
	}
	return nil, domain.ErrPageNotFound
}

func (s *pageStore) FindByURL(_ context.Context, url string) (*domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pages {
		if s.pages[i].URL == url {
			p := s.pages[i]
			return &p, nil
		}
	}
	return nil, domain.ErrPageNotFound
}

func (s *pageStore) Insert(_ context.Context, page *domain.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	page.ID = int64(len(s.pages) + 1)
	s.pages = append(s.pages, *page)
	return nil
}

func (s *pageStore) Update(_ context.Context, page *domain.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.ID-1] = *page
	return nil
}

func TestRoutes_CreateThenGet(t *testing.T) {
	var html atomic.Value
	html.Store(`<html><body><h1>Title</h1><h2>Sub</h2><h3>Minor</h3><a href="http://google.com">g</a></body></html>`)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html.Load().(string)))
	}))
	defer origin.Close()

	store := &pageStore{}
	svc := service.NewPageService(store, fetcher.New(fetcher.Config{}, infralogger.NewNop()), nil, nil, infralogger.NewNop())
	router := setupRouter(svc)

	body := `{"url": "` + origin.URL + `"}`
	want := `{"page_id":1,"h1":1,"h2":1,"h3":1,"a":["http://google.com"]}`

	first := serve(router, jsonRequest(body))
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	assert.JSONEq(t, want, first.Body.String())

	html.Store(`<h1>a</h1><h1>b</h1>`)
	second := serve(router, jsonRequest(body))
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, `{"page_id":1,"h1":2,"h2":0,"h3":0,"a":[]}`, second.Body.String())
	assert.Len(t, store.pages, 1)

	got := serve(router, httptest.NewRequest(http.MethodGet, "/page/1/", nil))
	require.Equal(t, http.StatusOK, got.Code)
	assert.JSONEq(t, second.Body.String(), got.Body.String())
}

func TestRoutes_UnreachableURLPersistsNothing(t *testing.T) {
	origin := httptest.NewServer(http.NotFoundHandler())
	unreachable := origin.URL
	origin.Close()

	store := &pageStore{}
	svc := service.NewPageService(store, fetcher.New(fetcher.Config{}, infralogger.NewNop()), nil, nil, infralogger.NewNop())

	w := serve(setupRouter(svc), jsonRequest(`{"url": "`+unreachable+`"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"detail":"An error occurred while trying to establish a connection with `+unreachable+`"}`,
		w.Body.String())
	assert.Empty(t, store.pages)
}

func TestRoutes_EmptyPageIsStored(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer origin.Close()

	store := &pageStore{}
	svc := service.NewPageService(store, fetcher.New(fetcher.Config{}, infralogger.NewNop()), nil, nil, infralogger.NewNop())

	w := serve(setupRouter(svc), jsonRequest(`{"url": "`+origin.URL+`"}`))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"page_id":1,"h1":0,"h2":0,"h3":0,"a":[]}`, w.Body.String())
	assert.Len(t, store.pages, 1)
}
