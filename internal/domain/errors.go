package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrAggregationEmpty is returned when every offer source produced zero listings
	ErrAggregationEmpty = errors.New("no listings found from any source")

	// ErrCacheMiss is returned when a document is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrVendorLookupFailed is returned when vendor metadata cannot be resolved for a listing
	ErrVendorLookupFailed = errors.New("vendor lookup failed")

	// ErrUnsupportedVertical is returned when a vertical has no handler
	ErrUnsupportedVertical = errors.New("unsupported vertical")

	// ErrBlockedPage is returned when a vendor served a bot wall instead of results
	ErrBlockedPage = errors.New("blocked by vendor")
)

// FetchError is returned when every retry attempt for a URL has been exhausted.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
