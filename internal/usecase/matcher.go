package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/skiguide/backend/internal/domain"
)

// Scoring weights. Brand and model hits dominate; word and tag overlap only
// break ties between otherwise equal candidates.
const (
	brandFieldWeight    = 0.8 // brand found in the record's brand field
	brandTitleWeight    = 0.6 // brand found in the title only
	brandFuzzyWeight    = 0.4 // 3-char overlap near-miss
	modelTitleWeight    = 0.8 // model token found in the title
	modelFuzzyWeight    = 0.5 // partial substring overlap with a title word
	specificityBonus    = 0.3 // both a brand and a model matched the same record
	waistCloseWeight    = 0.4 // query number within +-3mm of the waist
	waistNearWeight     = 0.2 // within +-10mm
	numberInTitleWeight = 0.3 // query number appears literally in the title
	yearWeight          = 0.2 // season token in both query and title
	wordOverlapWeight   = 0.1 // scaled by fraction of query words found
	tagOverlapWeight    = 0.05
)

// Pass thresholds. Records are scored in three passes of decreasing
// confidence so comparison queries surface at least two candidates even when
// only one side has full vocabulary coverage.
const (
	highConfidenceThreshold   = 0.8
	mediumConfidenceThreshold = 0.3
	fuzzyTextThreshold        = 0.2
)

var titleStopwordsRegex = regexp.MustCompile(`\b(which|of|the|and|is|cheapest|best|for)\b`)

// Matcher scores catalog records against extracted query tokens and returns a
// ranked match list. It holds no per-query state; FindProducts builds fresh
// result slices each call and is safe for concurrent use.
type Matcher struct {
	extractor *Extractor
	log       *zap.Logger
}

// NewMatcher creates a matcher using the given extractor.
func NewMatcher(extractor *Extractor, log *zap.Logger) *Matcher {
	return &Matcher{extractor: extractor, log: log}
}

// FindProducts returns up to maxResults records ranked by match score,
// descending, ties broken by catalog order. An empty catalog or a query that
// matches nothing yields an empty list, never an error.
func (m *Matcher) FindProducts(query string, catalog []domain.ProductRecord, maxResults int) []domain.MatchResult {
	if len(catalog) == 0 || maxResults <= 0 {
		return nil
	}

	queryLower := strings.ToLower(query)
	tokens := m.extractor.Extract(query)

	matched := make([]bool, len(catalog))
	var results []domain.MatchResult

	// Pass 1: high-confidence brand+model matches. Pass 2: partial matches.
	// Pass 3: fuzzy word overlap for records the vocabulary missed. Each
	// record is scored by the first pass that accepts it.
	for _, threshold := range []float64{highConfidenceThreshold, mediumConfidenceThreshold} {
		if len(results) >= maxResults && threshold != highConfidenceThreshold {
			break
		}
		for i, record := range catalog {
			if matched[i] {
				continue
			}
			score := m.scoreRecord(record, queryLower, tokens)
			if score > threshold {
				matched[i] = true
				results = append(results, domain.MatchResult{Product: record, MatchScore: score})
			}
		}
	}

	if len(results) < maxResults {
		for i, record := range catalog {
			if matched[i] {
				continue
			}
			score := fuzzyTextScore(record, queryLower)
			if score > fuzzyTextThreshold {
				matched[i] = true
				results = append(results, domain.MatchResult{Product: record, MatchScore: score})
			}
		}
	}

	sortMatches(results)

	if m.log != nil && len(results) > 0 {
		m.log.Debug("matched products",
			zap.String("query", query),
			zap.Int("candidates", len(results)),
			zap.String("best", results[0].Product.Title),
			zap.Float64("bestScore", results[0].MatchScore))
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// comparison query separators, checked in order
var comparisonSeparators = []string{" and ", " vs ", " versus ", " or ", " between "}

// FindProductsForComparison extracts the distinct products named in a
// comparison query. The query is split on separators and each segment matched
// independently; whole-query matching fills in when fewer than two distinct
// products surface.
func (m *Matcher) FindProductsForComparison(query string, catalog []domain.ProductRecord) []domain.MatchResult {
	queryLower := strings.ToLower(query)

	var found []domain.MatchResult
	addDistinct := func(candidates []domain.MatchResult, limit int) {
		for _, c := range candidates {
			if containsTitle(found, c.Product.Title) {
				continue
			}
			found = append(found, c)
			if len(found) >= limit {
				return
			}
		}
	}

	segments := splitComparisonQuery(queryLower)
	if len(segments) > 1 {
		for _, segment := range segments {
			if len(strings.TrimSpace(segment)) <= 5 {
				continue
			}
			if matches := m.FindProducts(segment, catalog, 3); len(matches) > 0 {
				addDistinct(matches[:1], 2)
			}
		}
	}

	if len(found) < 2 {
		addDistinct(m.FindProducts(query, catalog, 10), 2)
	}

	return found
}

// FindProductsByNames resolves an explicit product-name list against the
// catalog, taking the best match per name. Used when the caller already knows
// which products the question is about.
func (m *Matcher) FindProductsByNames(names []string, catalog []domain.ProductRecord) []domain.MatchResult {
	var found []domain.MatchResult
	for _, name := range names {
		matches := m.FindProducts(name, catalog, 3)
		if len(matches) == 0 {
			continue
		}
		if !containsTitle(found, matches[0].Product.Title) {
			found = append(found, matches[0])
		}
	}
	return found
}

// scoreRecord computes the additive match score for one record. Exact and
// punctuation-normalized title equality short-circuit with the maximum scores.
func (m *Matcher) scoreRecord(record domain.ProductRecord, queryLower string, tokens QueryTokens) float64 {
	title := strings.ToLower(record.Title)
	brand := strings.ToLower(record.Brand)

	queryCore := strings.TrimSpace(titleStopwordsRegex.ReplaceAllString(queryLower, ""))
	queryCore = strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(queryCore, " "))

	if title == queryLower || title == queryCore {
		return domain.ScoreExactTitle
	}
	titleNorm := normalizeText(title)
	if titleNorm != "" && (titleNorm == normalizeText(queryLower) || titleNorm == normalizeText(queryCore)) {
		return domain.ScoreNormalizedTitle
	}

	var score float64
	brandMatch := false
	modelMatch := false

	for _, b := range tokens.Brands {
		if strings.Contains(brand, b) {
			score += brandFieldWeight
			brandMatch = true
			break
		}
		if strings.Contains(title, b) {
			score += brandTitleWeight
			brandMatch = true
			break
		}
	}
	if !brandMatch {
		for _, b := range tokens.FuzzyBrands {
			if fuzzyWordOverlap(b, brand) {
				score += brandFuzzyWeight
				brandMatch = true
				break
			}
		}
	}

	for _, model := range tokens.Models {
		if strings.Contains(title, model) {
			score += modelTitleWeight
			modelMatch = true
			break
		}
		if fuzzyWordOverlap(model, title) {
			score += modelFuzzyWeight
			modelMatch = true
			break
		}
	}

	// Specificity bonus: brand and model agreeing on the same record is the
	// strongest disambiguation signal short of title equality.
	if brandMatch && modelMatch {
		score += specificityBonus
	}

	score += waistWidthScore(record, tokens.WaistWidths)
	score += numberInTitleScore(title, tokens.WaistWidths)

	if tokens.Year != "" && strings.Contains(title, tokens.Year) {
		score += yearWeight
	}

	score += wordOverlapScore(queryLower, title)
	score += tagOverlapScore(queryLower, record.Tags)

	return score
}

func waistWidthScore(record domain.ProductRecord, candidates []int) float64 {
	if record.WaistWidthMM == nil {
		return 0
	}
	waist := *record.WaistWidthMM
	for _, n := range candidates {
		diff := waist - float64(n)
		if diff < 0 {
			diff = -diff
		}
		if diff <= 3 {
			return waistCloseWeight
		}
		if diff <= 10 {
			return waistNearWeight
		}
	}
	return 0
}

func numberInTitleScore(title string, candidates []int) float64 {
	for _, n := range candidates {
		if strings.Contains(title, strconv.Itoa(n)) {
			return numberInTitleWeight
		}
	}
	return 0
}

// wordOverlapScore is a low-weight tie-breaker: the fraction of significant
// query words present in the title, scaled down so it never outranks a brand
// or model hit.
func wordOverlapScore(queryLower, title string) float64 {
	queryWords := significantWords(queryLower)
	if len(queryWords) == 0 {
		return 0
	}
	titleWords := strings.Fields(title)

	var common float64
	for _, qw := range queryWords {
		for _, tw := range titleWords {
			if qw == tw {
				common++
				break
			}
			if len(qw) > 3 && (strings.Contains(tw, qw) || strings.Contains(qw, tw)) {
				common += 0.5
				break
			}
		}
	}
	if common == 0 {
		return 0
	}
	return wordOverlapWeight * (common / float64(len(queryWords)))
}

func tagOverlapScore(queryLower string, tags []string) float64 {
	var score float64
	for _, qw := range significantWords(queryLower) {
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), qw) {
				score += tagOverlapWeight
				break
			}
		}
	}
	return score
}

// fuzzyTextScore is the pass-3 scorer for records the vocabulary missed:
// plain word containment against title, brand and tags. A single tag hit is
// worth 0.25 so browse queries like "powder skis" can surface records on tag
// evidence alone, which the per-word 0.05 tie-breaker in scoreRecord never
// lifts past the pass threshold.
func fuzzyTextScore(record domain.ProductRecord, queryLower string) float64 {
	title := strings.ToLower(record.Title)
	brand := strings.ToLower(record.Brand)

	var score float64
	for _, word := range significantWords(queryLower) {
		if strings.Contains(title, word) || strings.Contains(brand, word) {
			score += 0.2
		}
		for _, tag := range record.Tags {
			if strings.Contains(strings.ToLower(tag), word) {
				score += 0.25
				break
			}
		}
		for _, tw := range strings.Fields(title) {
			if len(word) > 3 && strings.Contains(tw, word) {
				score += 0.1
			} else if len(tw) > 3 && strings.Contains(word, tw) {
				score += 0.1
			}
		}
	}
	return score
}

// fuzzyWordOverlap reports a 3-char prefix overlap between token and any word
// of text longer than 2 chars, in either direction.
func fuzzyWordOverlap(token, text string) bool {
	if len(token) < 3 {
		return false
	}
	for _, word := range strings.Fields(text) {
		if len(word) <= 2 {
			continue
		}
		if strings.HasPrefix(word, token[:3]) {
			return true
		}
		if len(word) >= 3 && strings.HasPrefix(token, word[:3]) {
			return true
		}
	}
	return false
}

func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		w = punctuationRegex.ReplaceAllString(w, "")
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// normalizeText strips punctuation and collapses whitespace for near-exact
// title comparison.
func normalizeText(s string) string {
	s = punctuationRegex.ReplaceAllString(s, "")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// splitComparisonQuery splits on the first separator present, falling back to
// commas.
func splitComparisonQuery(queryLower string) []string {
	for _, sep := range comparisonSeparators {
		if strings.Contains(queryLower, sep) {
			return strings.Split(queryLower, sep)
		}
	}
	if strings.Contains(queryLower, ",") {
		return strings.Split(queryLower, ",")
	}
	return []string{queryLower}
}

// sortMatches sorts by score descending, keeping catalog order for ties.
// Stable insertion sort: candidate lists are small.
func sortMatches(results []domain.MatchResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].MatchScore > results[j-1].MatchScore; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

func containsTitle(results []domain.MatchResult, title string) bool {
	for _, r := range results {
		if r.Product.Title == title {
			return true
		}
	}
	return false
}
