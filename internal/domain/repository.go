package domain

import (
	"context"
	"time"
)

// CatalogRepository is the read accessor for the product catalog. The catalog
// fits in memory (hundreds of rows) and is immutable after load, so
// implementations return the full slice and callers iterate freely.
type CatalogRepository interface {
	All(ctx context.Context) ([]ProductRecord, error)
}

// TextGenerator is the external natural-language generation service. Exactly
// one call is made per query; implementations must bound the call with a
// timeout so a hung service degrades into ErrGenerationFailed rather than
// blocking the request.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ResponseCache stores deterministic query responses keyed by normalized query
// text. Only fallback-path responses are cached; LLM output may vary between
// calls and is not.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*QueryResult, error)
	Set(ctx context.Context, key string, result *QueryResult, ttl time.Duration) error
}
