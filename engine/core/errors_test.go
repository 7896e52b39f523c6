package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestLoadErrorMatchesKind(t *testing.T) {
	cause := fmt.Errorf("short read")
	err := error(NewLoadError(ErrMalformedAsset, "hero.scn", cause))

	if !errors.Is(err, ErrMalformedAsset) {
		t.Errorf("errors.Is(err, ErrMalformedAsset) = false")
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = true")
	}

	var le *LoadError
	if !errors.As(err, &le) || le.Path != "hero.scn" {
		t.Errorf("errors.As did not recover the LoadError: %v", err)
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := NewLoadError(ErrNotFound, "missing.scn", ErrNotFound)
	want := `load "missing.scn": not found`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestQueryErrorIsOutOfRange(t *testing.T) {
	err := error(&QueryError{What: "bone", Index: 5, Count: 2})
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("errors.Is(err, ErrOutOfRange) = false")
	}
	want := "bone index 5 is not in range [0, 2)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLoadErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", fmt.Errorf("open: %w", ErrNotFound), ErrNotFound},
		{"layout", fmt.Errorf("record: %w", ErrLayoutMismatch), ErrLayoutMismatch},
		{"malformed", ErrMalformedAsset, ErrMalformedAsset},
		{"other", errors.New("boom"), ErrMalformedAsset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoadErrorKind(tt.err); got != tt.want {
				t.Errorf("LoadErrorKind = %v, want %v", got, tt.want)
			}
		})
	}
}
