package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrMalformedAsset     = errors.New("malformed asset")
	ErrLayoutMismatch     = errors.New("layout mismatch")
	ErrOutOfRange         = errors.New("out of range")
	ErrUpdateFailed       = errors.New("update failed")
	ErrBackendUnavailable = errors.New("evaluator backend unavailable")
	ErrNotInitialized     = errors.New("engine not initialized")
	ErrUnknown            = errors.New("unknown")
)

// LoadError is returned by every failed scene load. Kind is one of
// ErrNotFound, ErrMalformedAsset or ErrLayoutMismatch.
type LoadError struct {
	Kind error
	Path string
	Err  error
}

func NewLoadError(kind error, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}

func (e *LoadError) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("load %q: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("load %q: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// QueryError reports an index outside [0, Count).
type QueryError struct {
	What  string
	Index int
	Count int
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s index %d is not in range [0, %d)", e.What, e.Index, e.Count)
}

func (e *QueryError) Unwrap() error {
	return ErrOutOfRange
}

// LoadErrorKind classifies err into one of the load error kinds. Errors
// that match none of them are reported as ErrMalformedAsset.
func LoadErrorKind(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrLayoutMismatch):
		return ErrLayoutMismatch
	default:
		return ErrMalformedAsset
	}
}
