// Package errs defines the error taxonomy shared by the store, the sync
// engine, and the CLI boundary. The core never logs-and-swallows: every
// failure is returned as one of these kinds so callers can branch on it
// with errors.Is / errors.As instead of parsing message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind names a category of failure. Kinds are stable across releases;
// message text is not.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindAmbiguous  Kind = "ambiguous"
	KindValidation Kind = "validation"
	KindCycle      Kind = "cycle_would_form"
	KindConflict   Kind = "conflict"
	KindCorruption Kind = "corruption"
	KindIO         Kind = "io"
	KindCancelled  Kind = "cancelled"
)

// Sentinel errors for errors.Is comparisons against a bare Kind.
var (
	ErrNotFound   = errors.New(string(KindNotFound))
	ErrAmbiguous  = errors.New(string(KindAmbiguous))
	ErrValidation = errors.New(string(KindValidation))
	ErrCycle      = errors.New(string(KindCycle))
	ErrConflict   = errors.New(string(KindConflict))
	ErrCorruption = errors.New(string(KindCorruption))
	ErrIO         = errors.New(string(KindIO))
	ErrCancelled  = errors.New(string(KindCancelled))
)

func sentinelFor(k Kind) error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindAmbiguous:
		return ErrAmbiguous
	case KindValidation:
		return ErrValidation
	case KindCycle:
		return ErrCycle
	case KindConflict:
		return ErrConflict
	case KindCorruption:
		return ErrCorruption
	case KindIO:
		return ErrIO
	case KindCancelled:
		return ErrCancelled
	default:
		return ErrIO
	}
}

// Error is the core's error type: a Kind, the failing operation, and the
// underlying cause (which may be nil for a pure validation failure).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinelFor(e.Kind)
}

// Is lets errors.Is(err, errs.ErrNotFound) succeed even though err is a
// concrete *Error rather than the sentinel itself.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

// New wraps an underlying error with an operation and a kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a kinded error from a format string, with no underlying cause.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// AmbiguousError is returned by prefix resolution when more than one ID
// matches; it carries every candidate so the caller can list them.
type AmbiguousError struct {
	Input      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches %d issues: %v", e.Input, len(e.Candidates), e.Candidates)
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// Is reports whether err (or anything it wraps) is of the given kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, sentinelFor(kind))
}

// Kindly returns the Kind carried by err, defaulting to KindIO when err
// does not originate from this package.
func Kindly(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var amb *AmbiguousError
	if errors.As(err, &amb) {
		return KindAmbiguous
	}
	return KindIO
}
