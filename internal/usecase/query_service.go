package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skiguide/backend/internal/domain"
	"github.com/skiguide/backend/internal/logger"
)

// QueryService orchestrates the full pipeline: classify, match, respond. It is
// the error boundary of the system: every call returns a usable QueryResult,
// never a Go error, and a panic anywhere below is converted into an
// error-classified result.
type QueryService struct {
	catalog    domain.CatalogRepository
	classifier *Classifier
	matcher    *Matcher
	responder  *Responder
	cache      domain.ResponseCache
	cacheTTL   time.Duration
	maxResults int
	log        *zap.Logger
}

// NewQueryService wires the pipeline. cache may be nil to disable response
// caching.
func NewQueryService(
	catalog domain.CatalogRepository,
	classifier *Classifier,
	matcher *Matcher,
	responder *Responder,
	cache domain.ResponseCache,
	cacheTTL time.Duration,
	maxResults int,
	log *zap.Logger,
) *QueryService {
	return &QueryService{
		catalog:    catalog,
		classifier: classifier,
		matcher:    matcher,
		responder:  responder,
		cache:      cache,
		cacheTTL:   cacheTTL,
		maxResults: maxResults,
		log:        log,
	}
}

// Answer processes one free-text query end to end.
func (s *QueryService) Answer(ctx context.Context, query string) (result *domain.QueryResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if s.log != nil {
				s.log.Error("query pipeline panic", zap.Any("panic", r), zap.String("query", query))
			}
			result = errorResult(start)
		}
	}()

	if cached := s.cachedResult(ctx, cacheKey(query, nil)); cached != nil {
		return cached
	}

	result = s.answer(ctx, query, nil)
	result.Duration = time.Since(start)
	s.maybeCache(ctx, cacheKey(query, nil), result)
	s.logResult(query, result)
	return result
}

// AnswerWithProducts processes a query whose subject products the caller
// already knows by name, skipping name detection inside the query text.
func (s *QueryService) AnswerWithProducts(ctx context.Context, query string, productNames []string) (result *domain.QueryResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if s.log != nil {
				s.log.Error("query pipeline panic", zap.Any("panic", r), zap.String("query", query))
			}
			result = errorResult(start)
		}
	}()

	if cached := s.cachedResult(ctx, cacheKey(query, productNames)); cached != nil {
		return cached
	}

	result = s.answer(ctx, query, productNames)
	result.Duration = time.Since(start)
	s.maybeCache(ctx, cacheKey(query, productNames), result)
	s.logResult(query, result)
	return result
}

// answer is the pipeline body. Classification decides the path; each path
// fixes its own confidence. Explicitly supplied product names join the text
// for classification, so "which one is lighter?" plus two names still counts
// as a comparison.
func (s *QueryService) answer(ctx context.Context, query string, productNames []string) *domain.QueryResult {
	classifyText := query
	if len(productNames) > 0 {
		classifyText = query + " " + strings.Join(productNames, " ")
	}
	class := s.classifier.Classify(ctx, classifyText)
	if class == domain.ClassInvalid {
		return &domain.QueryResult{
			Classification: domain.ClassInvalid,
			Response:       "Please ask a complete question, for example \"What is the waist width of the Atomic Bent 110?\".",
			Confidence:     domain.ConfidenceNone,
		}
	}

	catalog, err := s.catalog.All(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Error("catalog unavailable", zap.Error(err))
		}
		return &domain.QueryResult{
			Classification: domain.ClassError,
			Response:       "The product catalog is temporarily unavailable. Please try again in a moment.",
			Confidence:     domain.ConfidenceNone,
			ErrorMessage:   domain.ErrCatalogUnavailable.Error(),
		}
	}

	if class == domain.ClassSearch {
		matches := s.matcher.FindProducts(query, catalog, s.maxResults)
		return &domain.QueryResult{
			Classification:  domain.ClassSearch,
			Response:        s.responder.SearchListing(matches),
			Confidence:      domain.ConfidenceSearch,
			MatchedProducts: matches,
			DataSources:     []string{domain.SourceCatalog},
		}
	}

	matches := s.lookupMatches(class, query, productNames, catalog)
	required := 1
	if class == domain.ClassCompare {
		required = 2
	}
	if len(matches) < required {
		return &domain.QueryResult{
			Classification:  class,
			Response:        s.responder.NoMatch(),
			Confidence:      domain.ConfidenceNoMatch,
			MatchedProducts: matches,
			DataSources:     []string{domain.SourceCatalog},
		}
	}

	var response string
	var generated bool
	switch class {
	case domain.ClassCompare:
		response, generated = s.responder.Compare(ctx, query, matches)
	case domain.ClassDescribe:
		response, generated = s.responder.Describe(ctx, query, matches)
	default:
		response, generated = s.responder.General(ctx, query, matches)
	}

	confidence := domain.ConfidenceFallback
	sources := []string{domain.SourceCatalog}
	if generated {
		confidence = domain.ConfidenceLLM
		sources = append(sources, domain.SourceGenerator)
	}

	return &domain.QueryResult{
		Classification:  class,
		Response:        response,
		Confidence:      confidence,
		MatchedProducts: matches,
		DataSources:     sources,
	}
}

// lookupMatches picks the matching strategy for a lookup: explicit names win,
// comparisons use segment matching, everything else plain ranked matching.
func (s *QueryService) lookupMatches(class domain.Classification, query string, productNames []string, catalog []domain.ProductRecord) []domain.MatchResult {
	if len(productNames) > 0 {
		return s.matcher.FindProductsByNames(productNames, catalog)
	}
	if class == domain.ClassCompare {
		return s.matcher.FindProductsForComparison(query, catalog)
	}
	return s.matcher.FindProducts(query, catalog, s.maxResults)
}

// cachedResult returns a cache hit, marking it so callers can see the answer
// was not freshly computed. Only deterministic results are ever stored, so a
// hit is always safe to replay.
func (s *QueryService) cachedResult(ctx context.Context, key string) *domain.QueryResult {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) && s.log != nil {
			s.log.Warn("response cache read failed", zap.Error(err))
		}
		return nil
	}
	result := *cached
	result.DataSources = append([]string{domain.SourceCache}, result.DataSources...)
	return &result
}

// maybeCache stores fallback-path lookup results. Generator answers are not
// cached: they are non-deterministic and already carry a higher confidence.
func (s *QueryService) maybeCache(ctx context.Context, key string, result *domain.QueryResult) {
	if s.cache == nil || result == nil {
		return
	}
	if !result.Classification.IsLookup() || result.Confidence != domain.ConfidenceFallback {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil && s.log != nil {
		s.log.Warn("response cache write failed", zap.Error(err))
	}
}

func (s *QueryService) logResult(query string, result *domain.QueryResult) {
	if s.log == nil {
		return
	}
	s.log.Info("query answered",
		zap.String("query", logger.Truncate(query, 120)),
		zap.String("classification", string(result.Classification)),
		zap.Float64("confidence", result.Confidence),
		zap.Int("matches", len(result.MatchedProducts)),
		zap.Duration("duration", result.Duration))
}

func errorResult(start time.Time) *domain.QueryResult {
	return &domain.QueryResult{
		Classification: domain.ClassError,
		Response:       "Something went wrong while answering your question. Please try again.",
		Confidence:     domain.ConfidenceNone,
		Duration:       time.Since(start),
		ErrorMessage:   "internal error",
	}
}

// cacheKey normalizes the query text plus any explicit product names.
func cacheKey(query string, productNames []string) string {
	key := strings.ToLower(strings.TrimSpace(query))
	key = multipleSpacesRegex.ReplaceAllString(key, " ")
	if len(productNames) > 0 {
		key += "|" + strings.ToLower(strings.Join(productNames, "|"))
	}
	return key
}
