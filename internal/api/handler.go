// Package api exposes pages over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/internal/domain"
	"github.com/jonesrussell/pagestats/internal/service"
)

const (
	// maxMultipartMemory matches gin's default for multipart forms.
	maxMultipartMemory = 32 << 20

	internalErrorDetail = "Internal server error"
)

// PageService is the subset of service.PageService the handler needs.
type PageService interface {
	CreateOrRefresh(ctx context.Context, params service.Params) (*domain.Page, bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Page, error)
}

// PageHandler serves the /page/ routes.
type PageHandler struct {
	service PageService
	logger  infralogger.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc PageService, log infralogger.Logger) *PageHandler {
	if log == nil {
		log = infralogger.NewNop()
	}
	return &PageHandler{service: svc, logger: log}
}

// Create handles POST /page/. Both a new page and a refreshed one answer
// 201 with the stored summary.
func (h *PageHandler) Create(c *gin.Context) {
	params, err := bindParams(c)
	if err != nil {
		var unsupported *unsupportedMediaTypeError
		if errors.As(err, &unsupported) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	page, _, err := h.service.CreateOrRefresh(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPageJSON(page))
}

// Get handles GET and HEAD /page/:id/. Anything that is not a stored id
// answers 404 with an empty body.
func (h *PageHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	page, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPageJSON(page))
}

func (h *PageHandler) respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		connErr       *domain.ConnectionError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &connErr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.As(err, &notFoundErr):
		c.Status(http.StatusNotFound)
	default:
		infralogger.FromContextOr(c.Request.Context(), h.logger).Error("Page request failed",
			infralogger.String("path", c.Request.URL.Path),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": internalErrorDetail})
	}
}

type unsupportedMediaTypeError struct {
	contentType string
}

func (e *unsupportedMediaTypeError) Error() string {
	return `Unsupported media type "` + e.contentType + `" in request.`
}

type parseError struct {
	err error
}

func (e *parseError) Error() string {
	return "JSON parse error - " + e.err.Error()
}

func (e *parseError) Unwrap() error {
	return e.err
}

// bindParams decodes a JSON object or form body into service.Params. Form
// values keep every occurrence as a []string.
func bindParams(c *gin.Context) (service.Params, error) {
	switch ct := c.ContentType(); ct {
	case gin.MIMEJSON:
		return decodeJSON(c.Request.Body)
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
		return formParams(c.Request.PostForm), nil
	case gin.MIMEPOSTForm, "":
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		return formParams(c.Request.PostForm), nil
	default:
		return nil, &unsupportedMediaTypeError{contentType: ct}
	}
}

func decodeJSON(body io.Reader) (service.Params, error) {
	params := service.Params{}
	if body == nil {
		return params, nil
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return service.Params{}, nil
		}
		return nil, &parseError{err: err}
	}
	return params, nil
}

func formParams(values map[string][]string) service.Params {
	params := make(service.Params, len(values))
	for k, v := range values {
		params[k] = v
	}
	return params
}
