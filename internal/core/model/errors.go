package model

import (
	"errors"
	"fmt"
)

// InputError means the source geometry collection is unusable (unreadable,
// empty, or missing its reference frame). Always fatal, raised before any
// network call.
type InputError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("input %s: %s", e.Path, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// FetchError means one context category's query failed transiently. It is
// recoverable: the category degrades to an empty layer and the run proceeds.
type FetchError struct {
	Category Category
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s context: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError means the document could not be produced. Fatal; no output
// file is left behind.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render: %s: %v", e.Reason, e.Err)
	}
	return "render: " + e.Reason
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err may be absorbed as a degraded layer
// instead of aborting the run.
func IsRecoverable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
