package usecase

import "regexp"

// Lexicon is the fixed vocabulary the extractor and matcher work from: brand
// names with their alias spellings and the known model tokens. It is built
// once at startup and passed by reference; nothing mutates it afterwards, so
// it is safe to share across concurrent queries. Tests construct their own
// lexicons to exercise vocabulary edge cases.
type Lexicon struct {
	// brands maps a canonical brand name to the spellings that count as a
	// mention of it. Aliases cover unicode variants (völkl/volkl).
	brands map[string][]string

	// modelPatterns are compiled regexes for model codes that include numbers
	// or multi-word names (e.g. "bent 110", "qst lux 92").
	modelPatterns []*regexp.Regexp

	// modelWords are bare model names matched as whole words.
	modelWords map[string]bool
}

// NewLexicon returns the default ski-catalog lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		brands: map[string][]string{
			"atomic":    {"atomic"},
			"salomon":   {"salomon"},
			"rossignol": {"rossignol"},
			"k2":        {"k2"},
			"armada":    {"armada"},
			"volkl":     {"völkl", "volkl"},
			"line":      {"line"},
			"faction":   {"faction"},
			"dynafit":   {"dynafit"},
			"dps":       {"dps"},
			"nordica":   {"nordica"},
			"stockli":   {"stöckli", "stockli"},
			"fischer":   {"fischer"},
			"head":      {"head"},
			"blizzard":  {"blizzard"},
			"scott":     {"scott"},
			"extrem":    {"extrem"},
		},
		modelPatterns: compileModelPatterns([]string{
			`bent\s*(\d+|chetler)`,
			`maverick`, `redster`, `vantage`,
			`qst\s*(lux\s*)?\d+`, `stance`,
			`arv\s*\d+`, `declivity`, `tracer`, `invictus`,
			`pandora`, `chronic`, `sakana`, `vision`, `reckoner`,
			`prodigy\s*\d*`, `candide`, `chapter`,
			`blaze\s*\d+`, `mantra`, `kendo`, `secret`,
			`blacklight\s*\d*`, `radical`,
			`mother\s*tree\s*\d*`,
			`rustler`, `laser`, `wailer`, `santa\s*ana`, `enforcer`,
			`explorair`, `montero`, `transalp`,
		}),
		modelWords: makeWordSet([]string{
			"explorair", "montero", "mantra", "laser", "blaze", "bent", "qst",
			"arv", "pandora", "chronic", "prodigy", "wailer", "enforcer",
			"rustler", "sender", "kore", "vision", "reckoner", "blacklight",
			"mothertree", "transalp", "maverick", "declivity", "redster",
		}),
	}
}

// NewTestLexicon builds a lexicon from explicit word lists. Used by tests
// that need tight control over vocabulary coverage.
func NewTestLexicon(brands map[string][]string, modelWords []string, patterns []string) *Lexicon {
	return &Lexicon{
		brands:        brands,
		modelPatterns: compileModelPatterns(patterns),
		modelWords:    makeWordSet(modelWords),
	}
}

// Brands returns the canonical brand names in the vocabulary.
func (l *Lexicon) Brands() []string {
	names := make([]string, 0, len(l.brands))
	for name := range l.brands {
		names = append(names, name)
	}
	return names
}

func compileModelPatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)\b`+p+`\b`))
	}
	return compiled
}

func makeWordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
