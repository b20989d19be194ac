package usecase

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/skiguide/backend/internal/domain"
)

// Browse/search patterns for the first-level decision. A hit means the user
// wants a product listing, not an answer about a specific ski.
var searchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(show|find|search|list|recommend|suggest)\s+me\b`),
	regexp.MustCompile(`\bi\s+(want|need|am\s+looking\s+for)\b.*\bunder\b`),
	regexp.MustCompile(`\bdo\s+you\s+have\b.*\b(wider|cheaper|lighter)\b`),
	regexp.MustCompile(`\bshow\s+me\b.*\b(all|skis|options)\b`),
	regexp.MustCompile(`\bwhat\b.*\b(options|choices|skis)\b.*\bhave\b`),
	regexp.MustCompile(`\bwhich\b.*\b(cheapest|most\s+expensive|best\s+value|lightest|heaviest)\b.*\bski`),
	regexp.MustCompile(`\blist\b.*\b(all|skis|options)\b`),
	regexp.MustCompile(`\bgive\s+me\b.*\b(options|choices|list)\b`),
}

// Specific-property patterns for the describe decision: the query asks for a
// named spec of an identified product.
var describePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwhat\b.*\b(waist width|price|cost|specs|length|lengths|weight|listed price)\b`),
	regexp.MustCompile(`\bhow much\b.*\b(cost|price)\b`),
	regexp.MustCompile(`\b(price|cost)\b.*\b(of|for)\b`),
	regexp.MustCompile(`\bwaist\s*width\b`),
	regexp.MustCompile(`\bhow\s+(wide|heavy|long)\b`),
	regexp.MustCompile(`\bspecifications?\b`),
	regexp.MustCompile(`\bdimensions\b`),
	regexp.MustCompile(`\bweight\b.*\b(of|for)\b`),
	regexp.MustCompile(`\btwin[\s-]?tips?\b`),
}

// comparisonWords are the generic signals that two named products are being
// weighed against each other.
var comparisonWords = []string{
	"compare", "versus", " vs ", "difference between", "which is better",
	"which one", "differ", "comparison", "better than", "worse than",
	"wider", "narrower", "lighter", "heavier", "stiffer", "softer",
	"cheaper", "cheapest", "which is", "which of",
}

// conditionWords disqualify an "X or Y" pattern from being a product
// comparison: "powder or ice" compares conditions, not skis.
var conditionWords = map[string]bool{
	"powder": true, "ice": true, "icy": true, "piste": true, "offpiste": true,
	"park": true, "touring": true, "groomed": true, "slush": true,
	"moguls": true, "hardpack": true, "slalom": true,
}

const minQueryChars = 3

// queryContext is the evidence a classification rule looks at: the lowercased
// text plus the extractor's token view of it.
type queryContext struct {
	lower  string
	tokens QueryTokens
}

// classificationRule is one (predicate, result) pair. Rules are evaluated in
// slice order; the first predicate that fires decides the classification, so
// tie-breaking is the order of the slice, not buried control flow.
type classificationRule struct {
	name   string
	result domain.Classification
	test   func(q queryContext) bool
}

// Classifier decides the two-level intent of a query: search vs lookup, and
// for lookups whether the user compares products, asks for a specific spec,
// or asks a general question. Both levels are deterministic rule cascades; an
// optional generator can take the first shot, with the rule cascade as its
// fallback.
type Classifier struct {
	extractor   *Extractor
	generator   domain.TextGenerator
	log         *zap.Logger
	lookupRules []classificationRule
}

// NewClassifier creates a rule-based classifier. generator may be nil; when
// set, Classify asks it first and validates its answer against the closed
// classification set before trusting it.
func NewClassifier(extractor *Extractor, generator domain.TextGenerator, log *zap.Logger) *Classifier {
	c := &Classifier{extractor: extractor, generator: generator, log: log}
	c.lookupRules = buildLookupRules()
	return c
}

// buildLookupRules returns the second-level cascade. Compare rules come
// before describe rules: a query naming two products with a spec word
// ("which is wider, X or Y") is a comparison, not a spec lookup.
func buildLookupRules() []classificationRule {
	return []classificationRule{
		{
			name:   "between-x-and-y",
			result: domain.ClassCompare,
			test: func(q queryContext) bool {
				return strings.HasPrefix(q.lower, "between ") && strings.Contains(q.lower, " and ")
			},
		},
		{
			name:   "explicit-compare",
			result: domain.ClassCompare,
			test: func(q queryContext) bool {
				return strings.Contains(q.lower, "compare") ||
					strings.Contains(q.lower, " vs ") ||
					strings.Contains(q.lower, "versus")
			},
		},
		{
			// Needs two distinct product mentions: a brand glued to its own
			// model ("atomic bent 110") is one product, and a comparison
			// adjective alone must not drag it into the compare path.
			name:   "two-products-comparison-word",
			result: domain.ClassCompare,
			test: func(q queryContext) bool {
				if q.tokens.Mentions < 2 {
					return false
				}
				for _, word := range comparisonWords {
					if strings.Contains(q.lower, word) {
						return true
					}
				}
				return false
			},
		},
		{
			name:   "product-or-product",
			result: domain.ClassCompare,
			test: func(q queryContext) bool {
				return q.tokens.Mentions >= 2 && hasProductDisjunction(q.lower)
			},
		},
		{
			name:   "named-spec",
			result: domain.ClassDescribe,
			test: func(q queryContext) bool {
				for _, pattern := range describePatterns {
					if pattern.MatchString(q.lower) {
						return true
					}
				}
				return false
			},
		},
	}
}

// Classify runs the two-level cascade. Too-short and single-word gibberish
// queries are terminal ClassInvalid and never reach the matcher or the
// generator.
func (c *Classifier) Classify(ctx context.Context, query string) domain.Classification {
	if meaningfulLength(query) < minQueryChars {
		return domain.ClassInvalid
	}

	lower := strings.ToLower(query)
	tokens := c.extractor.Extract(query)
	if isGibberish(lower, tokens) {
		return domain.ClassInvalid
	}

	if c.generator != nil {
		if class, ok := c.classifyWithGenerator(ctx, query); ok {
			return class
		}
	}

	return c.classifyWithRules(lower, tokens)
}

// classifyWithRules is the deterministic cascade, also the fallback when the
// generator is unavailable or answers outside the closed set.
func (c *Classifier) classifyWithRules(lower string, tokens QueryTokens) domain.Classification {
	q := queryContext{lower: lower, tokens: tokens}

	// Level 1: browse pattern or zero product tokens means search.
	for _, pattern := range searchPatterns {
		if pattern.MatchString(q.lower) {
			return domain.ClassSearch
		}
	}
	if !q.tokens.HasProductTokens() {
		return domain.ClassSearch
	}

	// Level 2: first matching lookup rule wins.
	for _, rule := range c.lookupRules {
		if rule.test(q) {
			if c.log != nil {
				c.log.Debug("lookup rule fired", zap.String("rule", rule.name), zap.String("result", string(rule.result)))
			}
			return rule.result
		}
	}
	return domain.ClassGeneral
}

const classifyPromptTemplate = `You are a query intent classifier for a ski equipment shop.
Classify the query into EXACTLY ONE of these categories and return only the category string:

search - the user wants to browse, filter or get recommendations for products
lookup:compare - the user wants to compare two or more specific products
lookup:describe - the user asks for a specific spec (price, waist width, weight, length, twin-tip) of one product
lookup:general - the user asks a general question about a product's suitability or about skiing

Rules:
- "Between X and Y" questions are always lookup:compare.
- A query naming two products with a property word is lookup:compare, never lookup:describe.
- A query naming no specific product is search.

Query: "%s"

Classification:`

var validGeneratedClasses = map[domain.Classification]bool{
	domain.ClassSearch:   true,
	domain.ClassCompare:  true,
	domain.ClassDescribe: true,
	domain.ClassGeneral:  true,
}

// classifyWithGenerator makes the single generator attempt. Any failure or
// out-of-set answer reports !ok and the caller falls back to rules; the
// fallback contract is identical to response generation.
func (c *Classifier) classifyWithGenerator(ctx context.Context, query string) (domain.Classification, bool) {
	prompt := strings.Replace(classifyPromptTemplate, "%s", query, 1)
	answer, err := c.generator.Generate(ctx, prompt, 16)
	if err != nil {
		if c.log != nil {
			c.log.Debug("generator classification failed, using rules", zap.Error(err))
		}
		return "", false
	}

	class := domain.Classification(strings.Trim(strings.TrimSpace(answer), `"`))
	if !validGeneratedClasses[class] {
		if c.log != nil {
			c.log.Warn("generator returned unknown classification", zap.String("answer", answer))
		}
		return "", false
	}
	return class, true
}

// hasProductDisjunction reports an " or " whose neighbouring words are not
// skiing-condition words, i.e. the disjunction is between products.
func hasProductDisjunction(lower string) bool {
	idx := strings.Index(lower, " or ")
	if idx < 0 {
		return false
	}
	before := lastWord(lower[:idx])
	after := firstWord(lower[idx+len(" or "):])
	return !conditionWords[before] && !conditionWords[after]
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], ",.!?")
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ",.!?")
}

// skiingWords are single-word queries that still mean something: a condition
// or discipline on its own is a browse request, not gibberish.
var skiingWords = map[string]bool{
	"ski": true, "skis": true, "skiing": true, "freeride": true,
	"freestyle": true, "carving": true, "allmountain": true,
}

// isGibberish reports a single word that names no product, no number and no
// skiing concept. "asdf" is unanswerable and must not reach the matcher.
func isGibberish(lower string, tokens QueryTokens) bool {
	fields := strings.Fields(lower)
	if len(fields) != 1 {
		return false
	}
	if tokens.HasProductTokens() || len(tokens.WaistWidths) > 0 || len(tokens.Lengths) > 0 {
		return false
	}
	word := strings.Trim(fields[0], ",.!?")
	return !conditionWords[word] && !skiingWords[word]
}

// meaningfulLength counts letters and digits, ignoring whitespace and
// punctuation.
func meaningfulLength(s string) int {
	var n int
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r > 127 {
			n++
		}
	}
	return n
}
