// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package werror provides the two boundary error kinds used throughout
// the render pipeline: validation (malformed input, rejected before
// evaluation begins) and evaluation (a failure during preparation, eval,
// compile, pass execution, or encoder I/O).
package werror

import (
	"errors"
	"fmt"
)

// Kind tags an error as either a validation or evaluation failure.
type Kind int

const (
	// Validation marks malformed compositions, invalid paths, invalid
	// parameters, non-finite numerics, or impossible invariants caught
	// before evaluation begins.
	Validation Kind = iota
	// Evaluation marks a failure during asset preparation, frame
	// evaluation, compilation, pass execution, or encoder I/O.
	Evaluation
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Evaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// Error is a Kind-tagged error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a new Kind-tagged error from a message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Newf creates a new Kind-tagged error from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap tags an existing error with a Kind, leaving it unwrappable to the
// original. Wrapping a nil error returns nil, and an error that already
// carries a Kind is returned unchanged, keeping its original Kind.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// Is reports whether err was tagged with the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Validationf is a convenience constructor for a Validation-kind error.
func Validationf(format string, args ...any) error {
	return Newf(Validation, format, args...)
}

// Evaluationf is a convenience constructor for an Evaluation-kind error.
func Evaluationf(format string, args ...any) error {
	return Newf(Evaluation, format, args...)
}
