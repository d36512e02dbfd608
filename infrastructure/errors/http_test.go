package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	infraerrors "github.com/jonesrussell/pagestats/infrastructure/errors"
)

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusNoContent, false},
		{http.StatusMovedPermanently, true},
		{http.StatusNotFound, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			t.Parallel()

			err := infraerrors.CheckStatus(&http.Response{StatusCode: tt.code})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.code, infraerrors.StatusCode(fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestHTTPError_Message(t *testing.T) {
	t.Parallel()

	err := infraerrors.CheckStatus(&http.Response{StatusCode: http.StatusNotFound})
	assert.EqualError(t, err, "unexpected HTTP status: 404 Not Found")
	assert.Zero(t, infraerrors.StatusCode(assert.AnError))
}
