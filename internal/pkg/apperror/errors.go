package apperror

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for the given id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotReady is returned when a stage runs before its prerequisite completed.
	ErrSessionNotReady = errors.New("session not ready")

	// ErrEmbeddingFailure wraps any failure of the embedding provider.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrCatalogUnavailable wraps any failure of the program catalog store.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrMalformedCandidate marks a catalog record whose stored vector cannot be ranked.
	// It is recovered locally and never aborts a search.
	ErrMalformedCandidate = errors.New("malformed candidate")

	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")
)
