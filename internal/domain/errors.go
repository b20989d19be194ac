package domain

import "errors"

var (
	// ErrInvalidQuery is returned for queries too short or empty to classify.
	ErrInvalidQuery = errors.New("query too short or empty")

	// ErrGenerationFailed is returned when the generation service call failed,
	// timed out, returned empty text, or no credential is configured. Always
	// recovered locally by the template fallback.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrCatalogUnavailable is returned when the catalog store cannot be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrCacheMiss is returned when a response is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)
