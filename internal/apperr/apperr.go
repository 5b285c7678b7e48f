// Package apperr defines the failure kinds reported across component
// boundaries. Every kind is a recoverable-by-caller condition; nothing
// in here is ever process-fatal.
package apperr

import "errors"

// Kind classifies a failure
type Kind string

const (
	KindMalformedDate     Kind = "malformed_date"
	KindInvertedRange     Kind = "inverted_range"
	KindFutureStart       Kind = "future_start"
	KindRangeTooLong      Kind = "range_too_long"
	KindLocationNotFound  Kind = "location_not_found"
	KindNotFound          Kind = "not_found"
	KindNoChanges         Kind = "no_changes"
	KindUnsupportedFormat Kind = "unsupported_format"
)

// Error carries a failure kind together with a human-readable message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from err, or "" if err is not an *Error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
