// Package errors provides the error taxonomy shared by the scraping
// pipeline, the salary joiner, and persistence.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for propagation decisions.
//
//   - KindNotFound: an expected field or resource was absent (no id on a
//     record, no HTML in a response, no metadata on a paged response, no
//     match in a lookup). Recoverable at the row level.
//   - KindInvalidArgument: input was present but malformed (unparseable
//     JSON, HTML with parse errors, an email without "@").
//   - KindInternal: a transport or infrastructure failure (non-2xx,
//     task-join failure, timeout).
type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidArgument
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInternal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Status is a tagged error. A per-row Status becomes a Failure entry in the
// page's result sequence; a per-page Status aborts the page's stage chain;
// a per-site Status aborts that site's pipeline. No Status terminates the
// process.
type Status struct {
	Kind Kind
	Err  error
}

func (s *Status) Error() string {
	return fmt.Sprintf("%s: %v", s.Kind, s.Err)
}

func (s *Status) Unwrap() error {
	return s.Err
}

// NotFound tags err as KindNotFound.
func NotFound(err error) *Status {
	return &Status{Kind: KindNotFound, Err: err}
}

// NotFoundf tags a formatted message as KindNotFound.
func NotFoundf(format string, args ...any) *Status {
	return NotFound(fmt.Errorf(format, args...))
}

// InvalidArgument tags err as KindInvalidArgument.
func InvalidArgument(err error) *Status {
	return &Status{Kind: KindInvalidArgument, Err: err}
}

// InvalidArgumentf tags a formatted message as KindInvalidArgument.
func InvalidArgumentf(format string, args ...any) *Status {
	return InvalidArgument(fmt.Errorf(format, args...))
}

// Internal tags err as KindInternal.
func Internal(err error) *Status {
	return &Status{Kind: KindInternal, Err: err}
}

// Internalf tags a formatted message as KindInternal.
func Internalf(format string, args ...any) *Status {
	return Internal(fmt.Errorf(format, args...))
}

// KindOf reports the Kind of err. Untagged errors are KindInternal.
func KindOf(err error) Kind {
	var status *Status
	if errors.As(err, &status) {
		return status.Kind
	}
	return KindInternal
}

// AsStatus returns err as a *Status, tagging untagged errors as KindInternal.
// A nil err returns nil.
func AsStatus(err error) *Status {
	if err == nil {
		return nil
	}
	var status *Status
	if errors.As(err, &status) {
		return status
	}
	return Internal(err)
}

// ScraperError records web-scraping failures with request context.
type ScraperError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ScraperError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("scraper error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("scraper error (url=%s): %v", e.URL, e.Err)
}

func (e *ScraperError) Unwrap() error {
	return e.Err
}

// NewScraperError creates a new scraper error.
func NewScraperError(url string, statusCode int, err error) *ScraperError {
	return &ScraperError{URL: url, StatusCode: statusCode, Err: err}
}
