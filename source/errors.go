package source

import (
	"errors"
	"fmt"
)

// ErrSource indicates a page fetch failed. It is fatal to the bulk-ingestion
// invocation that encountered it; pages are not retried.
var ErrSource = errors.New("ticket source error")

// PageError reports a page payload that could not be parsed as a list of
// tickets. Raw carries the response body for operator diagnosis.
type PageError struct {
	Page int
	Raw  string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("malformed payload on page %d", e.Page)
}

// Unwrap lets errors.Is match against ErrSource.
func (e *PageError) Unwrap() error {
	return ErrSource
}
