// Package errors classifies failed HTTP exchanges.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError reports a response whose status is outside 2xx.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status: %s", e.Status)
}

// CheckStatus returns an *HTTPError unless resp has a 2xx status. The body
// is left untouched.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &HTTPError{StatusCode: resp.StatusCode, Status: status}
}

// StatusCode extracts the status from an *HTTPError anywhere in err's
// chain, or returns 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
