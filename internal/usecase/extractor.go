package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	wordNumberRegex     = regexp.MustCompile(`\b(\d{2,3})\b`)
	modelYearRegex      = regexp.MustCompile(`\b(\d{2}/\d{2})\b`)
)

// Candidate numeric ranges. Two-digit numbers in a ski query are almost
// always waist widths; three-digit numbers above 130 are lengths.
const (
	minWaistWidthMM = 70
	maxWaistWidthMM = 130
	minLengthCM     = 130
	maxLengthCM     = 220
)

// QueryTokens is everything the lexical extractor pulled out of one query.
// Built once per query and read by the matcher and classifier; never mutated
// after extraction.
type QueryTokens struct {
	Brands      []string // canonical brand names found in the text
	FuzzyBrands []string // brands matched only by the 3-char overlap pass
	Models      []string // model tokens found via vocabulary or patterns
	WaistWidths []int    // numbers in the plausible waist-width range
	Lengths     []int    // numbers in the plausible ski-length range
	Year        string   // "24/25"-style season token, empty when absent
	Mentions    int      // distinct products referenced, see countMentions
}

// HasProductTokens reports whether the query names any brand or model at all.
// A query with zero product tokens cannot be an informational lookup.
func (t QueryTokens) HasProductTokens() bool {
	return len(t.Brands) > 0 || len(t.FuzzyBrands) > 0 || len(t.Models) > 0
}

// Extractor pulls brands, model tokens, numbers and year markers out of free
// text using a fixed lexicon. Pure function of input text and vocabulary; no
// state beyond the lexicon reference.
type Extractor struct {
	lexicon *Lexicon
}

// NewExtractor creates an extractor over the given lexicon.
func NewExtractor(lexicon *Lexicon) *Extractor {
	return &Extractor{lexicon: lexicon}
}

// Extract tokenizes the query.
func (e *Extractor) Extract(query string) QueryTokens {
	lower := strings.ToLower(query)

	tokens := QueryTokens{
		Brands:      e.extractBrands(lower),
		Models:      e.extractModels(lower),
		Year:        extractYear(lower),
	}
	tokens.FuzzyBrands = e.extractFuzzyBrands(lower, tokens.Brands)
	tokens.WaistWidths, tokens.Lengths = extractNumbers(lower)
	tokens.Mentions = e.countMentions(lower, tokens)

	return tokens
}

// countMentions counts distinct product references. Each model is one mention;
// a brand only counts on its own when it does not directly precede one of the
// found models, so "atomic bent 110" is a single product while "atomic or
// völkl" is two.
func (e *Extractor) countMentions(query string, tokens QueryTokens) int {
	count := len(tokens.Models)
	for _, brand := range tokens.Brands {
		attached := false
		for _, alias := range e.lexicon.brands[brand] {
			for _, model := range tokens.Models {
				if strings.Contains(query, alias+" "+model) {
					attached = true
				}
			}
		}
		if !attached {
			count++
		}
	}
	return count
}

// extractBrands finds brands whose literal spelling (any alias) appears in the
// query.
func (e *Extractor) extractBrands(query string) []string {
	var brands []string
	for brand, aliases := range e.lexicon.brands {
		for _, alias := range aliases {
			if strings.Contains(query, alias) {
				brands = append(brands, brand)
				break
			}
		}
	}
	sortStrings(brands)
	return brands
}

// extractFuzzyBrands is the secondary pass: a query word and a brand count as
// a near-miss when they share a three-character prefix or suffix. The prefix
// side catches truncations like "ross", the suffix side typos like "atmic".
func (e *Extractor) extractFuzzyBrands(query string, already []string) []string {
	found := make(map[string]bool, len(already))
	for _, b := range already {
		found[b] = true
	}

	var fuzzy []string
	for _, word := range strings.Fields(query) {
		word = punctuationRegex.ReplaceAllString(word, "")
		if len(word) <= 3 {
			continue
		}
		for brand := range e.lexicon.brands {
			if found[brand] || len(brand) < 3 {
				continue
			}
			if strings.HasPrefix(word, brand[:3]) || strings.HasPrefix(brand, word[:3]) ||
				strings.HasSuffix(word, brand[len(brand)-3:]) || strings.HasSuffix(brand, word[len(word)-3:]) {
				fuzzy = append(fuzzy, brand)
				found[brand] = true
			}
		}
	}
	sortStrings(fuzzy)
	return fuzzy
}

// extractModels finds model tokens via regex patterns first, then bare
// vocabulary words. A bare word already covered by a pattern match is the same
// mention, not a second model, so "bent 110" never also yields "bent".
func (e *Extractor) extractModels(query string) []string {
	seen := make(map[string]bool)
	var models []string

	add := func(m string) {
		m = strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(m, " "))
		if m != "" && !seen[m] {
			seen[m] = true
			models = append(models, m)
		}
	}

	for _, pattern := range e.lexicon.modelPatterns {
		for _, match := range pattern.FindAllString(query, -1) {
			add(strings.ToLower(match))
		}
	}

	for _, word := range strings.Fields(query) {
		word = punctuationRegex.ReplaceAllString(word, "")
		if !e.lexicon.modelWords[word] {
			continue
		}
		covered := false
		for _, m := range models {
			if strings.Contains(m, word) {
				covered = true
				break
			}
		}
		if !covered {
			add(word)
		}
	}

	return models
}

// extractNumbers splits bare 2-3 digit numbers into waist-width and length
// candidates by range.
func extractNumbers(query string) (waists, lengths []int) {
	for _, match := range wordNumberRegex.FindAllString(query, -1) {
		n, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		switch {
		case n >= minWaistWidthMM && n <= maxWaistWidthMM:
			waists = append(waists, n)
		case n >= minLengthCM && n <= maxLengthCM:
			lengths = append(lengths, n)
		}
	}
	return waists, lengths
}

// extractYear finds a "24/25"-style season marker.
func extractYear(query string) string {
	return modelYearRegex.FindString(query)
}

// sortStrings is insertion sort; token lists are tiny and this keeps
// extraction output deterministic for map-ordered inputs.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
