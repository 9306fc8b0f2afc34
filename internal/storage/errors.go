package storage

import "errors"

// Store errors. Entities follow last-write-wins semantics, so the only
// interesting failure modes are absence and bad input. Absence is a normal
// result for lazily-created records (prices, metric buckets).
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
