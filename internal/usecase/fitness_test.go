package usecase

import (
	"testing"

	"github.com/skiguide/backend/internal/domain"
)

func TestEvaluate(t *testing.T) {
	evaluator := NewEvaluator()

	t.Run("all scores stay within zero and one", func(t *testing.T) {
		for _, product := range testCatalog() {
			profile := evaluator.Evaluate(product)
			for aspect, score := range profile {
				if score < 0 || score > 1 {
					t.Errorf("%s: %s = %v, want within [0,1]", product.Title, aspect, score)
				}
			}
		}
	})

	t.Run("powder freeride ski rates high off-piste", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{
			Tags: []string{"powder", "freeride"},
		})
		if got := profile.Get(domain.AspectOffpiste); got != 0.9 {
			t.Errorf("offpiste = %v, want 0.9", got)
		}
	})

	t.Run("carving ski rates high on piste and low in park", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{
			Tags: []string{"carving", "race", "titanal"},
		})
		if got := profile.Get(domain.AspectPiste); got != 0.9 {
			t.Errorf("piste = %v, want 0.9", got)
		}
		if got := profile.Get(domain.AspectPark); got != 0.2 {
			t.Errorf("park = %v, want 0.2", got)
		}
		if got := profile.Get(domain.AspectSpeed); got != 0.9 {
			t.Errorf("speed = %v, want 0.9", got)
		}
	})

	t.Run("pro-model park ski reaches the park ceiling", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{
			Tags: []string{"park", "freestyle", "pro-model"},
		})
		if got := profile.Get(domain.AspectPark); got != 1.0 {
			t.Errorf("park = %v, want 1.0", got)
		}
	})

	t.Run("touring category boosts touring score", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{
			Category: "Topptursskidor",
			Tags:     []string{"touring", "lightweight"},
		})
		if got := profile.Get(domain.AspectTouring); got != 0.9 {
			t.Errorf("touring = %v, want 0.9", got)
		}
	})

	t.Run("all-mountain floor keeps piste and off-piste at 0.6 minimum", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{
			Tags: []string{"all-mountain"},
		})
		if got := profile.Get(domain.AspectOffpiste); got < 0.6 {
			t.Errorf("offpiste = %v, want >= 0.6", got)
		}
		if got := profile.Get(domain.AspectPiste); got < 0.6 {
			t.Errorf("piste = %v, want >= 0.6", got)
		}
	})

	t.Run("beginner tags and expert tags are mutually low", func(t *testing.T) {
		beginner := evaluator.Evaluate(domain.ProductRecord{Tags: []string{"beginner", "forgiving"}})
		if got := beginner.Get(domain.AspectBeginner); got != 0.9 {
			t.Errorf("beginner friendliness = %v, want 0.9", got)
		}
		expert := evaluator.Evaluate(domain.ProductRecord{Tags: []string{"aggressive", "demanding"}})
		if got := expert.Get(domain.AspectBeginner); got != 0.2 {
			t.Errorf("beginner friendliness = %v, want 0.2", got)
		}
	})

	t.Run("width rating follows the waist breakpoints", func(t *testing.T) {
		cases := []struct {
			width float64
			want  float64
		}{
			{72, 0.2},
			{88, 0.4},
			{98, 0.6},
			{110, 0.8},
			{118, 1.0},
		}
		for _, tc := range cases {
			profile := evaluator.Evaluate(domain.ProductRecord{
				WaistWidthMM: domain.Float64(tc.width),
			})
			if got := profile.Get(domain.AspectWidth); got != tc.want {
				t.Errorf("width %v: rating = %v, want %v", tc.width, got, tc.want)
			}
		}
	})

	t.Run("no waist means no width aspect", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{Tags: []string{"powder"}})
		if _, ok := profile[domain.AspectWidth]; ok {
			t.Error("width aspect present without waist data")
		}
		if got := profile.Get(domain.AspectWidth); got != 0.5 {
			t.Errorf("Get(width) = %v, want neutral 0.5", got)
		}
	})

	t.Run("wide ski counts as soft snow capable without tags", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{
			WaistWidthMM: domain.Float64(108),
		})
		if got := profile.Get(domain.AspectSoftSnow); got != 0.7 {
			t.Errorf("soft snow = %v, want 0.7", got)
		}
	})

	t.Run("category substring counts as tag evidence", func(t *testing.T) {
		profile := evaluator.Evaluate(domain.ProductRecord{Category: "Freeride"})
		if got := profile.Get(domain.AspectOffpiste); got != 0.8 {
			t.Errorf("offpiste = %v, want 0.8 from category", got)
		}
	})

	t.Run("evaluation is deterministic", func(t *testing.T) {
		product := testCatalog()[0]
		first := evaluator.Evaluate(product)
		second := evaluator.Evaluate(product)
		for aspect, score := range first {
			if second[aspect] != score {
				t.Errorf("%s differs across runs: %v vs %v", aspect, score, second[aspect])
			}
		}
	})
}

func TestLevelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.9, "Excellent"},
		{0.8, "Excellent"},
		{0.7, "Good"},
		{0.6, "Good"},
		{0.5, "Moderate"},
		{0.4, "Moderate"},
		{0.3, "Limited"},
		{0.2, "Limited"},
		{0.1, "Poor"},
		{0.0, "Poor"},
	}
	for _, tc := range cases {
		if got := domain.Level(tc.score); got != tc.want {
			t.Errorf("Level(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
