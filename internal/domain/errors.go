package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySymbol is returned before any provider call when the symbol is blank.
	ErrEmptySymbol = errors.New("empty symbol")
	// ErrNotFound means the provider had no rows or attributes for the request.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest covers malformed periods, intervals and date ranges.
	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderError wraps a failure of the external data provider. It matches
// ErrNotFound so the pipeline treats it like an empty result, while the cause
// stays available for diagnostics.
type ProviderError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrNotFound }

// FormatError reports a snapshot attribute whose value has an unexpected type.
type FormatError struct {
	Key   string
	Value any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format %s: unexpected value %v (%T)", e.Key, e.Value, e.Value)
}
