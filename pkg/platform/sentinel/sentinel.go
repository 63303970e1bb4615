// Package sentinel names storage outcomes that services translate into
// domain errors. Stores return them, possibly wrapped, and never build
// domain errors themselves.
package sentinel

import "errors"

var (
	// ErrNotFound means the requested row or key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a write collided with an existing row.
	ErrConflict = errors.New("conflict")
)
