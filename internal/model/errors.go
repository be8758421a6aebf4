package model

import (
	"errors"
	"fmt"
)

// ErrUnexpectedShape is returned when a search response lacks the top-level
// data array.
var ErrUnexpectedShape = errors.New("unexpected response shape: missing data array")

// ErrNoChoices is returned by a provider when the completion has zero choices.
var ErrNoChoices = errors.New("completion returned no choices")

// HTTPError is a non-2xx response from an upstream service.
type HTTPError struct {
	StatusCode int
	Body       string // truncated response body, may be empty
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// MissingFieldError reports a job element that lacks one of the expected keys.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("job %d: missing field %q", e.Index, e.Field)
}
