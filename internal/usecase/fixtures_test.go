package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/skiguide/backend/internal/domain"
)

// testCatalog returns a small fixed catalog used across the package tests.
func testCatalog() []domain.ProductRecord {
	return []domain.ProductRecord{
		{
			ID:           "1",
			Title:        "Atomic Bent 110 24/25",
			Brand:        "Atomic",
			Category:     "Freeride",
			Tags:         []string{"freeride", "powder", "playful", "all-mountain"},
			WaistWidthMM: domain.Float64(110),
			Price:        domain.Float64(8000),
			SalePrice:    domain.Float64(7000),
			WeightGrams:  domain.Float64(1900),
			LengthsCM:    []int{172, 180, 188},
			TwinTip:      domain.Bool(true),
		},
		{
			ID:           "2",
			Title:        "Völkl Blaze 114 24/25",
			Brand:        "Völkl",
			Category:     "Freeride",
			Tags:         []string{"freeride", "powder", "float", "lightweight"},
			WaistWidthMM: domain.Float64(114),
			Price:        domain.Float64(9500),
			WeightGrams:  domain.Float64(1850),
			LengthsCM:    []int{177, 184, 191},
		},
		{
			ID:           "3",
			Title:        "Line Vision 98",
			Brand:        "Line",
			Category:     "All-mountain",
			Tags:         []string{"all-mountain", "playful", "versatile"},
			WaistWidthMM: domain.Float64(98),
			Price:        domain.Float64(6500),
			WeightGrams:  domain.Float64(1700),
			LengthsCM:    []int{169, 176, 183},
			TwinTip:      domain.Bool(true),
		},
		{
			ID:           "4",
			Title:        "Stöckli Laser MX",
			Brand:        "Stöckli",
			Category:     "Piste",
			Tags:         []string{"piste", "carving", "race", "titanal", "edge-hold"},
			WaistWidthMM: domain.Float64(72),
			Price:        domain.Float64(13000),
			WeightGrams:  domain.Float64(2100),
			TurnRadiusM:  domain.Float64(14.5),
		},
		{
			ID:           "5",
			Title:        "Dynafit Blacklight 88",
			Brand:        "Dynafit",
			Category:     "Topptursskidor",
			Tags:         []string{"touring", "lightweight", "carbon", "uphill"},
			WaistWidthMM: domain.Float64(88),
			Price:        domain.Float64(7800),
			WeightGrams:  domain.Float64(1150),
		},
	}
}

// stubCatalog is an in-memory CatalogRepository for orchestrator tests.
type stubCatalog struct {
	records []domain.ProductRecord
	err     error
}

func (s *stubCatalog) All(ctx context.Context) ([]domain.ProductRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// stubGenerator is a scriptable TextGenerator.
type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

var errGeneratorDown = errors.New("generator down")

// stubCache records Set calls and serves a fixed Get response.
type stubCache struct {
	stored map[string]*domain.QueryResult
}

func newStubCache() *stubCache {
	return &stubCache{stored: make(map[string]*domain.QueryResult)}
}

func (s *stubCache) Get(ctx context.Context, key string) (*domain.QueryResult, error) {
	if result, ok := s.stored[key]; ok {
		return result, nil
	}
	return nil, domain.ErrCacheMiss
}

func (s *stubCache) Set(ctx context.Context, key string, result *domain.QueryResult, ttl time.Duration) error {
	copied := *result
	s.stored[key] = &copied
	return nil
}

// newTestService wires a QueryService over the fixture catalog with an
// optional generator and cache.
func newTestService(generator domain.TextGenerator, cache domain.ResponseCache) *QueryService {
	extractor := NewExtractor(NewLexicon())
	evaluator := NewEvaluator()
	return NewQueryService(
		&stubCatalog{records: testCatalog()},
		NewClassifier(extractor, nil, nil),
		NewMatcher(extractor, nil),
		NewResponder(generator, evaluator, 300, nil),
		cache,
		time.Hour,
		10,
		nil,
	)
}
