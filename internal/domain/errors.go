package domain

import (
	"errors"
	"fmt"
)

// ExpectedParams is appended to every validation message.
const ExpectedParams = "{'url': 'some_url'}"

// ErrPageNotFound is returned by stores when no row matches.
var ErrPageNotFound = errors.New("page not found")

// ErrURLConflict is returned by stores when an insert collides with an
// existing URL.
var ErrURLConflict = errors.New("page url already exists")

// ValidationError means the request did not carry a usable url.
// Received is the already rendered form of the raw parameters.
type ValidationError struct {
	Received string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid parameters: %s. Expected: %s", e.Received, ExpectedParams)
}

// ConnectionError means the page could not be fetched or parsed.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return "An error occurred while trying to establish a connection with " + e.URL
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NotFoundError means no page has the requested id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPageNotFound
}
