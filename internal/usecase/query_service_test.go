package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/skiguide/backend/internal/domain"
)

func TestAnswerInvalid(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.Answer(ctx, "asdf")
	if result.Classification != domain.ClassInvalid {
		t.Errorf("Classification = %s, want invalid", result.Classification)
	}
	if result.Confidence != domain.ConfidenceNone {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
	if len(result.MatchedProducts) != 0 {
		t.Errorf("MatchedProducts = %d, want none for invalid query", len(result.MatchedProducts))
	}
	if result.Response == "" {
		t.Error("invalid query still needs a usable response")
	}
}

func TestAnswerSearch(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.Answer(ctx, "show me all powder skis")
	if result.Classification != domain.ClassSearch {
		t.Fatalf("Classification = %s, want search", result.Classification)
	}
	if result.Confidence != domain.ConfidenceSearch {
		t.Errorf("Confidence = %v, want %v", result.Confidence, domain.ConfidenceSearch)
	}
	if len(result.MatchedProducts) == 0 {
		t.Error("search for powder skis matched nothing")
	}
	if len(result.DataSources) != 1 || result.DataSources[0] != domain.SourceCatalog {
		t.Errorf("DataSources = %v, want [catalog]", result.DataSources)
	}
}

func TestAnswerCompareScenario(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.Answer(ctx, "Which of the Atomic Bent 110 and the Völkl Blaze 114 is wider?")
	if result.Classification != domain.ClassCompare {
		t.Fatalf("Classification = %s, want lookup:compare", result.Classification)
	}
	if len(result.MatchedProducts) != 2 {
		t.Fatalf("MatchedProducts = %d, want 2", len(result.MatchedProducts))
	}
	if !strings.Contains(result.Response, "Völkl Blaze 114") {
		t.Errorf("Response = %q, want the Blaze 114 named as wider", result.Response)
	}
	if result.Confidence != domain.ConfidenceFallback {
		t.Errorf("Confidence = %v, want fallback %v", result.Confidence, domain.ConfidenceFallback)
	}
}

func TestAnswerDescribeScenario(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.Answer(ctx, "What is the price of the Atomic Bent 110?")
	if result.Classification != domain.ClassDescribe {
		t.Fatalf("Classification = %s, want lookup:describe", result.Classification)
	}
	if !strings.Contains(result.Response, "7000") || !strings.Contains(result.Response, "8000") {
		t.Errorf("Response = %q, want regular and sale price quoted", result.Response)
	}
}

func TestAnswerGeneratorConfidence(t *testing.T) {
	ctx := context.Background()

	t.Run("generator answer carries the high confidence", func(t *testing.T) {
		svc := newTestService(&stubGenerator{answer: "It costs 7000 kr."}, nil)
		result := svc.Answer(ctx, "What is the price of the Atomic Bent 110?")
		if result.Confidence != domain.ConfidenceLLM {
			t.Errorf("Confidence = %v, want %v", result.Confidence, domain.ConfidenceLLM)
		}
		hasLLM := false
		for _, src := range result.DataSources {
			if src == domain.SourceGenerator {
				hasLLM = true
			}
		}
		if !hasLLM {
			t.Errorf("DataSources = %v, want llm included", result.DataSources)
		}
	})

	t.Run("failing generator is absorbed, never surfaced", func(t *testing.T) {
		svc := newTestService(&stubGenerator{err: errGeneratorDown}, nil)
		queries := []string{
			"What is the price of the Atomic Bent 110?",
			"Which is wider, the Atomic Bent 110 or the Völkl Blaze 114?",
			"Is the Line Vision 98 good for park skiing?",
		}
		for _, query := range queries {
			result := svc.Answer(ctx, query)
			if result.Response == "" {
				t.Errorf("query %q: empty response with failing generator", query)
			}
			if result.ErrorMessage != "" {
				t.Errorf("query %q: ErrorMessage = %q, want empty", query, result.ErrorMessage)
			}
			if result.Confidence != domain.ConfidenceFallback {
				t.Errorf("query %q: Confidence = %v, want fallback", query, result.Confidence)
			}
		}
	})
}

func TestAnswerSingleProductComparisonWord(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.Answer(ctx, "is the atomic bent 110 cheaper now?")
	if !result.Classification.IsLookup() {
		t.Fatalf("Classification = %s, want a lookup class", result.Classification)
	}
	if result.Confidence == domain.ConfidenceNoMatch {
		t.Fatalf("Confidence = %v, question about a catalog ski must not dead-end in no-match", result.Confidence)
	}
	if len(result.MatchedProducts) == 0 || result.MatchedProducts[0].Product.ID != "1" {
		t.Fatalf("MatchedProducts = %+v, want the Bent 110", result.MatchedProducts)
	}
	if !strings.Contains(result.Response, "Atomic Bent 110") {
		t.Errorf("Response = %q, want an answer about the Bent 110", result.Response)
	}
}

func TestAnswerNoMatch(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.Answer(ctx, "what is the price of the k2 reckoner 102?")
	if !result.Classification.IsLookup() {
		t.Fatalf("Classification = %s, want a lookup class", result.Classification)
	}
	if result.Confidence != domain.ConfidenceNoMatch {
		t.Errorf("Confidence = %v, want %v", result.Confidence, domain.ConfidenceNoMatch)
	}
	if result.Response == "" {
		t.Error("no-match still needs a usable response")
	}
}

func TestAnswerCatalogFailure(t *testing.T) {
	extractor := NewExtractor(NewLexicon())
	svc := NewQueryService(
		&stubCatalog{err: domain.ErrCatalogUnavailable},
		NewClassifier(extractor, nil, nil),
		NewMatcher(extractor, nil),
		NewResponder(nil, NewEvaluator(), 300, nil),
		nil, 0, 10, nil,
	)

	result := svc.Answer(context.Background(), "What is the price of the Atomic Bent 110?")
	if result.Classification != domain.ClassError {
		t.Errorf("Classification = %s, want error", result.Classification)
	}
	if result.Confidence != domain.ConfidenceNone {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
	if result.ErrorMessage == "" {
		t.Error("catalog failure should set ErrorMessage")
	}
}

func TestAnswerIdempotence(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	query := "Which is wider, the Atomic Bent 110 or the Völkl Blaze 114?"
	first := svc.Answer(ctx, query)
	second := svc.Answer(ctx, query)

	if first.Response != second.Response {
		t.Errorf("responses differ:\n%q\n%q", first.Response, second.Response)
	}
	if first.Classification != second.Classification || first.Confidence != second.Confidence {
		t.Errorf("classification or confidence differ across identical queries")
	}
}

func TestAnswerWithProducts(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	result := svc.AnswerWithProducts(ctx,
		"Which one is lighter?",
		[]string{"Atomic Bent 110", "Völkl Blaze 114"})
	if result.Classification != domain.ClassCompare {
		t.Fatalf("Classification = %s, want lookup:compare", result.Classification)
	}
	if len(result.MatchedProducts) != 2 {
		t.Fatalf("MatchedProducts = %d, want 2", len(result.MatchedProducts))
	}
	if !strings.Contains(result.Response, "Völkl Blaze 114") {
		t.Errorf("Response = %q, want the lighter Blaze 114 named", result.Response)
	}
}

func TestAnswerCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("fallback lookup answers are cached and replayed", func(t *testing.T) {
		cache := newStubCache()
		svc := newTestService(nil, cache)

		query := "What is the price of the Atomic Bent 110?"
		first := svc.Answer(ctx, query)
		if len(cache.stored) != 1 {
			t.Fatalf("cache entries = %d, want 1", len(cache.stored))
		}

		second := svc.Answer(ctx, query)
		if second.Response != first.Response {
			t.Errorf("cached response differs: %q vs %q", second.Response, first.Response)
		}
		if len(second.DataSources) == 0 || second.DataSources[0] != domain.SourceCache {
			t.Errorf("DataSources = %v, want cache first", second.DataSources)
		}
	})

	t.Run("generator answers are not cached", func(t *testing.T) {
		cache := newStubCache()
		svc := newTestService(&stubGenerator{answer: "Costs 7000 kr."}, cache)

		svc.Answer(ctx, "What is the price of the Atomic Bent 110?")
		if len(cache.stored) != 0 {
			t.Errorf("cache entries = %d, want 0 for generator answers", len(cache.stored))
		}
	})

	t.Run("search results are not cached", func(t *testing.T) {
		cache := newStubCache()
		svc := newTestService(nil, cache)

		svc.Answer(ctx, "show me all powder skis")
		if len(cache.stored) != 0 {
			t.Errorf("cache entries = %d, want 0 for search", len(cache.stored))
		}
	})
}

func TestAnswerRecordsDuration(t *testing.T) {
	svc := newTestService(nil, nil)
	result := svc.Answer(context.Background(), "What is the price of the Atomic Bent 110?")
	if result.Duration <= 0 || result.Duration > time.Minute {
		t.Errorf("Duration = %v, want a positive wall-clock measurement", result.Duration)
	}
}

func TestAnswerRecoversFromPanic(t *testing.T) {
	extractor := NewExtractor(NewLexicon())
	svc := NewQueryService(
		&panickyCatalog{},
		NewClassifier(extractor, nil, nil),
		NewMatcher(extractor, nil),
		NewResponder(nil, NewEvaluator(), 300, nil),
		nil, 0, 10, nil,
	)

	result := svc.Answer(context.Background(), "What is the price of the Atomic Bent 110?")
	if result == nil {
		t.Fatal("result is nil after panic")
	}
	if result.Classification != domain.ClassError {
		t.Errorf("Classification = %s, want error", result.Classification)
	}
	if result.Response == "" {
		t.Error("panic path still needs a usable response")
	}
}

type panickyCatalog struct{}

func (p *panickyCatalog) All(ctx context.Context) ([]domain.ProductRecord, error) {
	panic("catalog exploded")
}
