package elasticsearch

import (
	"errors"
	"fmt"
)

// ErrSearchService is the sentinel every SearchServiceError matches.
var ErrSearchService = errors.New("search service error")

// SearchServiceError reports a failed call to Elasticsearch.
type SearchServiceError struct {
	// Op is the failing operation: ping, count or fetch.
	Op string
	// Index is the queried index, empty for ping.
	Index string
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// Err is the underlying cause.
	Err error
}

func (e *SearchServiceError) Error() string {
	msg := e.Op
	if e.Index != "" {
		msg += " " + e.Index
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" [%d]", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the cause and ErrSearchService.
func (e *SearchServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSearchService}
	}
	return []error{ErrSearchService, e.Err}
}
