package app

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput: the URL has no registered domain.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamNotReachable: the upstream answered with a non-200 status.
	ErrUpstreamNotReachable = errors.New("upstream not reachable")
	// ErrNetwork: the fetch failed at the transport level.
	ErrNetwork = errors.New("network error")
	// ErrNoContentFound: extraction found no readable block.
	ErrNoContentFound = errors.New("no content found")
)

// ScrapeError is a terminal failure of one scrape. It carries the HTTP status
// and client-facing detail; errors.Is matches both Kind and the cause.
type ScrapeError struct {
	Kind   error
	Status int
	Detail string
	Err    error
}

func (e *ScrapeError) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Detail
	}
	return e.Kind.Error() + ": " + e.Detail + ": " + e.Err.Error()
}

func (e *ScrapeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidInput(err error) *ScrapeError {
	return &ScrapeError{Kind: ErrInvalidInput, Status: http.StatusBadRequest, Detail: "Invalid URL", Err: err}
}

func notReachable(err error) *ScrapeError {
	return &ScrapeError{Kind: ErrUpstreamNotReachable, Status: http.StatusNotFound, Detail: "Page not reachable", Err: err}
}

func networkFailure(err error) *ScrapeError {
	return &ScrapeError{Kind: ErrNetwork, Status: http.StatusInternalServerError, Detail: "Request failed: " + err.Error(), Err: err}
}

func noContent(err error) *ScrapeError {
	return &ScrapeError{Kind: ErrNoContentFound, Status: http.StatusNotFound, Detail: "No readable content found", Err: err}
}
