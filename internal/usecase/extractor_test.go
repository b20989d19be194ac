package usecase

import (
	"testing"
)

func TestExtract(t *testing.T) {
	extractor := NewExtractor(NewLexicon())

	t.Run("finds literal brand mentions", func(t *testing.T) {
		tokens := extractor.Extract("What is the price of the Atomic Bent 110?")
		if len(tokens.Brands) != 1 || tokens.Brands[0] != "atomic" {
			t.Errorf("Brands = %v, want [atomic]", tokens.Brands)
		}
	})

	t.Run("unicode brand aliases map to canonical name", func(t *testing.T) {
		tokens := extractor.Extract("How wide is the Völkl Blaze 114?")
		if len(tokens.Brands) != 1 || tokens.Brands[0] != "volkl" {
			t.Errorf("Brands = %v, want [volkl]", tokens.Brands)
		}
	})

	t.Run("finds multiple brands sorted", func(t *testing.T) {
		tokens := extractor.Extract("Compare the Völkl Blaze and the Atomic Bent")
		if len(tokens.Brands) != 2 || tokens.Brands[0] != "atomic" || tokens.Brands[1] != "volkl" {
			t.Errorf("Brands = %v, want [atomic volkl]", tokens.Brands)
		}
	})

	t.Run("fuzzy brand pass catches typos by suffix", func(t *testing.T) {
		tokens := extractor.Extract("how much is the atmic bent 110")
		if len(tokens.Brands) != 0 {
			t.Fatalf("Brands = %v, want none for misspelled brand", tokens.Brands)
		}
		if len(tokens.FuzzyBrands) == 0 || tokens.FuzzyBrands[0] != "atomic" {
			t.Errorf("FuzzyBrands = %v, want [atomic]", tokens.FuzzyBrands)
		}
	})

	t.Run("fuzzy brand pass catches truncations by prefix", func(t *testing.T) {
		tokens := extractor.Extract("do you carry ross skis")
		if len(tokens.FuzzyBrands) == 0 || tokens.FuzzyBrands[0] != "rossignol" {
			t.Errorf("FuzzyBrands = %v, want [rossignol]", tokens.FuzzyBrands)
		}
	})

	t.Run("fuzzy pass skips brands already found literally", func(t *testing.T) {
		tokens := extractor.Extract("atomic skis")
		for _, b := range tokens.FuzzyBrands {
			if b == "atomic" {
				t.Errorf("FuzzyBrands = %v, atomic should not repeat", tokens.FuzzyBrands)
			}
		}
	})

	t.Run("model patterns capture number suffix", func(t *testing.T) {
		tokens := extractor.Extract("tell me about the bent 110")
		if len(tokens.Models) == 0 || tokens.Models[0] != "bent 110" {
			t.Errorf("Models = %v, want [bent 110]", tokens.Models)
		}
	})

	t.Run("bare word covered by a pattern match is not a second model", func(t *testing.T) {
		tokens := extractor.Extract("is the atomic bent 110 cheaper now?")
		if len(tokens.Models) != 1 || tokens.Models[0] != "bent 110" {
			t.Errorf("Models = %v, want exactly [bent 110]", tokens.Models)
		}
	})

	t.Run("bare model words match as whole words", func(t *testing.T) {
		tokens := extractor.Extract("is the mantra stable at speed")
		if len(tokens.Models) != 1 || tokens.Models[0] != "mantra" {
			t.Errorf("Models = %v, want [mantra]", tokens.Models)
		}
	})

	t.Run("numbers split into waist and length ranges", func(t *testing.T) {
		tokens := extractor.Extract("a 110 waist ski in 184")
		if len(tokens.WaistWidths) != 1 || tokens.WaistWidths[0] != 110 {
			t.Errorf("WaistWidths = %v, want [110]", tokens.WaistWidths)
		}
		if len(tokens.Lengths) != 1 || tokens.Lengths[0] != 184 {
			t.Errorf("Lengths = %v, want [184]", tokens.Lengths)
		}
	})

	t.Run("out of range numbers are dropped", func(t *testing.T) {
		tokens := extractor.Extract("skis under 500 euro")
		if len(tokens.WaistWidths) != 0 || len(tokens.Lengths) != 0 {
			t.Errorf("numbers = %v/%v, want none", tokens.WaistWidths, tokens.Lengths)
		}
	})

	t.Run("season token extracted", func(t *testing.T) {
		tokens := extractor.Extract("bent 110 24/25 model")
		if tokens.Year != "24/25" {
			t.Errorf("Year = %q, want 24/25", tokens.Year)
		}
	})

	t.Run("no product tokens in a generic question", func(t *testing.T) {
		tokens := extractor.Extract("what skis do you have for powder")
		if tokens.HasProductTokens() {
			t.Errorf("HasProductTokens = true, want false for %+v", tokens)
		}
	})
}

func TestProductMentions(t *testing.T) {
	extractor := NewExtractor(NewLexicon())

	cases := []struct {
		query string
		want  int
	}{
		{"which is wider, the atomic bent 110 or the völkl blaze 114?", 2},
		{"is the atomic bent 110 cheaper now?", 1},
		{"atomic or völkl, which brand makes stiffer skis?", 2},
		{"is the blaze 114 lighter than the bent 110", 2},
		{"what skis do you have for powder", 0},
	}
	for _, tc := range cases {
		tokens := extractor.Extract(tc.query)
		if tokens.Mentions != tc.want {
			t.Errorf("Extract(%q).Mentions = %d, want %d", tc.query, tokens.Mentions, tc.want)
		}
	}
}
