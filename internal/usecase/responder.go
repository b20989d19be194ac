package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/skiguide/backend/internal/domain"
)

// Responder turns a classified query and its matched products into response
// text. Every lookup path is a (generator attempt, deterministic fallback)
// pair: the generator gets exactly one call, and any failure or empty answer
// silently degrades to the template. Callers learn which path produced the
// text so the orchestrator can assign the right confidence.
type Responder struct {
	generator domain.TextGenerator
	prompts   promptBuilder
	fallback  fallbackWriter
	maxTokens int
	log       *zap.Logger
}

// NewResponder creates a responder. generator may be nil, in which case every
// response comes from the deterministic templates.
func NewResponder(generator domain.TextGenerator, evaluator *Evaluator, maxTokens int, log *zap.Logger) *Responder {
	return &Responder{
		generator: generator,
		prompts:   promptBuilder{evaluator: evaluator},
		fallback:  fallbackWriter{evaluator: evaluator},
		maxTokens: maxTokens,
		log:       log,
	}
}

// Describe answers a specific-spec question about the best-matched product.
func (r *Responder) Describe(ctx context.Context, question string, matches []domain.MatchResult) (string, bool) {
	return r.respond(ctx,
		func() string { return r.prompts.BuildAnswerPrompt(question, matches[:1]) },
		func() string { return r.fallback.Describe(question, matches[0].Product) })
}

// Compare answers a comparison between the first two matched products.
func (r *Responder) Compare(ctx context.Context, question string, matches []domain.MatchResult) (string, bool) {
	return r.respond(ctx,
		func() string { return r.prompts.BuildComparisonPrompt(question, matches[:2]) },
		func() string { return r.fallback.Compare(question, matches[0].Product, matches[1].Product) })
}

// General answers an open suitability question about the best-matched product.
func (r *Responder) General(ctx context.Context, question string, matches []domain.MatchResult) (string, bool) {
	return r.respond(ctx,
		func() string { return r.prompts.BuildAnswerPrompt(question, matches[:1]) },
		func() string { return r.fallback.General(question, matches[0].Product) })
}

// SearchListing renders a product listing. Search responses are always
// deterministic; there is nothing for a generator to add to a ranked list.
func (r *Responder) SearchListing(matches []domain.MatchResult) string {
	return r.fallback.SearchListing(matches)
}

// NoMatch is the apology for lookups that resolved to zero products.
func (r *Responder) NoMatch() string {
	return r.fallback.NoMatch()
}

// respond runs the single generator attempt and falls back to the template.
// The bool result reports whether the generator's text was used.
func (r *Responder) respond(ctx context.Context, buildPrompt func() string, buildFallback func() string) (string, bool) {
	if r.generator != nil {
		answer, err := r.generator.Generate(ctx, buildPrompt(), r.maxTokens)
		if err == nil {
			if text := strings.TrimSpace(answer); text != "" {
				return text, true
			}
		} else if r.log != nil {
			r.log.Warn("generation failed, using fallback", zap.Error(err))
		}
	}
	return buildFallback(), false
}
