package cian

import (
	"errors"
	"fmt"
)

// Transient page failures. Each one is retried with a fixed backoff and
// counted against the failure budget; network errors from the fetcher are
// treated the same way.
var (
	ErrBotChallenge      = errors.New("bot challenge detected")
	ErrMissingHeader     = errors.New("page header not found")
	ErrMissingPagination = errors.New("pagination control not found")
)

// FatalError terminates the crawl once the transient-failure budget is
// exhausted. Page is the page index at which the run aborted.
type FatalError struct {
	Page int
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("crawl aborted at page %d: %v", e.Page, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
