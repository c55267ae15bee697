package model

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into one of the user-legible categories. Every
// failure an external delegate can raise is mapped to exactly one Kind before
// it reaches the presentation layer.
type Kind string

const (
	KindInvalidURL    Kind = "invalid_or_unsupported_url"
	KindNetwork       Kind = "network_failure"
	KindUnavailable   Kind = "content_unavailable"
	KindLoginRequired Kind = "login_required"
	KindProbeParse    Kind = "probe_parse_failure"
	KindAcquisition   Kind = "acquisition_failure"
	KindOutputMissing Kind = "output_file_missing"
	KindConversion    Kind = "conversion_process_failure"
	KindToolMissing   Kind = "conversion_tool_missing"
	KindUnclassified  Kind = "unclassified"
)

// Error is a classified failure with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// E builds a classified error. err may be nil.
func E(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain, or KindUnclassified when the
// chain carries no classified error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnclassified
}
