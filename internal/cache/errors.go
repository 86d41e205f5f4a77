// internal/cache/errors.go
package cache

import "errors"

var (
	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("cache store is closed")

	// ErrTypeMismatch is returned when a cached value does not have the
	// type the caller asked for.
	ErrTypeMismatch = errors.New("cached value has unexpected type")
)
