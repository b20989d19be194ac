package domain

import "time"

// Classification is the intent the classifier assigned to a query. The lookup
// values carry their second-level refinement; Invalid and ClassError are
// terminal values produced by the orchestrator, never by the classifier's
// second level.
type Classification string

const (
	ClassSearch   Classification = "search"
	ClassCompare  Classification = "lookup:compare"
	ClassDescribe Classification = "lookup:describe"
	ClassGeneral  Classification = "lookup:general"
	ClassInvalid  Classification = "invalid"
	ClassError    Classification = "error"
)

// IsLookup reports whether the classification is one of the informational
// lookup intents that flow through matching and response generation.
func (c Classification) IsLookup() bool {
	return c == ClassCompare || c == ClassDescribe || c == ClassGeneral
}

// Fixed per-path confidence constants. Confidence is a routing signal, not a
// learned probability: an LLM-backed answer is trusted more than a templated
// fallback, and both more than a no-match apology.
const (
	ConfidenceLLM      = 0.9
	ConfidenceSearch   = 0.8
	ConfidenceFallback = 0.7
	ConfidenceNoMatch  = 0.3
	ConfidenceNone     = 0.0
)

// QueryResult is the sole externally visible artifact of a query. Every path
// through the pipeline terminates in one of these; errors never escape as Go
// errors past the orchestrator.
type QueryResult struct {
	Classification  Classification `json:"classification"`
	Response        string         `json:"response"`
	Confidence      float64        `json:"confidence"`
	MatchedProducts []MatchResult  `json:"matchedProducts,omitempty"`
	Duration        time.Duration  `json:"duration"`
	DataSources     []string       `json:"dataSources,omitempty"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
}

// Data source labels recorded on a QueryResult.
const (
	SourceCatalog   = "catalog"
	SourceGenerator = "llm"
	SourceCache     = "cache"
)
