package crawler

import (
	"errors"
	"fmt"
)

// ErrNoData is returned for product pages without a specification table.
var ErrNoData = errors.New("product page has no specification table")

// FetchError describes a request that timed out, failed in transport or
// returned a non-success status.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("status %d for %s", e.Status, e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
