package usecase

import (
	"strings"

	"github.com/skiguide/backend/internal/domain"
)

// aspectKeywords maps each fitness aspect to the tag keywords that drive its
// score. The tables are fixed configuration: scores come from tag membership,
// not from any measured property of the ski.
var (
	offpisteTags  = []string{"off-piste", "offpiste", "powder", "freeride", "backcountry", "float"}
	pisteTags     = []string{"piste", "carving", "groomed", "race", "edge-hold", "edge-grip"}
	allMountain   = []string{"all-mountain", "allmountain", "versatile"}
	parkTags      = []string{"park", "freestyle", "jibbing", "rails", "jumps", "playful", "twin-tip"}
	parkEliteTags = []string{"pro-model", "park-slayer"}
	touringTags   = []string{"touring", "freetouring", "backcountry", "uphill", "lightweight", "carbon"}
	beginnerTags  = []string{"beginner", "forgiving", "easy", "soft-flex", "easy-turn"}
	expertTags    = []string{"expert", "advanced", "aggressive", "demanding"}
	expertPerf    = []string{"expert", "advanced", "aggressive", "responsive", "precise", "pro-model"}
	stableTags    = []string{"stable", "stability", "titanal", "metal", "damp", "control"}
	playfulTags   = []string{"playful", "agile", "nimble"}
	agileTags     = []string{"agile", "nimble", "responsive", "quick", "playful", "maneuverable"}
	dampTags      = []string{"stable", "damp", "heavy"}
	speedTags     = []string{"fast", "speed", "race", "aggressive", "titanal"}
	hardSnowTags  = []string{"ice", "icy", "hardpack", "edge-hold", "carving", "race", "metal", "edge-grip"}
	softSnowTags  = []string{"powder", "float", "soft-snow", "freeride"}
	touringCat    = "topptursskidor" // the catalog's Swedish touring category
)

// Evaluator derives per-aspect fitness scores from a record's tags, category
// and waist width. Pure and stateless: evaluation is cheap enough that
// profiles are recomputed per query instead of cached.
type Evaluator struct{}

// NewEvaluator creates a fitness evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes the full fitness profile for one product. Every score is
// in [0,1]; aspects with no keyword evidence get a mid-range default so
// "unknown" never reads as "bad".
func (e *Evaluator) Evaluate(product domain.ProductRecord) domain.FitnessProfile {
	tags := newTagSet(product)
	profile := make(domain.FitnessProfile, 12)

	// Off-piste
	switch {
	case tags.hasAny(offpisteTags):
		profile[domain.AspectOffpiste] = 0.8
		if tags.has("powder") && tags.has("freeride") {
			profile[domain.AspectOffpiste] = 0.9
		}
	case tags.hasAny(allMountain):
		profile[domain.AspectOffpiste] = 0.6
	default:
		profile[domain.AspectOffpiste] = 0.3
	}

	// Piste
	switch {
	case tags.hasAny(pisteTags):
		profile[domain.AspectPiste] = 0.9
	case tags.hasAny(allMountain):
		profile[domain.AspectPiste] = 0.7
	case tags.hasAny([]string{"park", "freestyle"}):
		profile[domain.AspectPiste] = 0.5
	default:
		profile[domain.AspectPiste] = 0.4
	}

	// Park
	switch {
	case tags.hasAny(parkTags):
		profile[domain.AspectPark] = 0.9
		if tags.hasAny(parkEliteTags) {
			profile[domain.AspectPark] = 1.0
		}
	case tags.hasAny(allMountain):
		profile[domain.AspectPark] = 0.5
	default:
		profile[domain.AspectPark] = 0.2
	}

	// Touring
	if tags.hasAny(touringTags) {
		profile[domain.AspectTouring] = 0.8
		if strings.Contains(strings.ToLower(product.Category), touringCat) {
			profile[domain.AspectTouring] = 0.9
		}
	} else {
		profile[domain.AspectTouring] = 0.2
	}

	// Beginner friendliness
	switch {
	case tags.hasAny(beginnerTags):
		profile[domain.AspectBeginner] = 0.9
	case tags.has("intermediate"):
		profile[domain.AspectBeginner] = 0.5
	case tags.hasAny(expertTags):
		profile[domain.AspectBeginner] = 0.2
	default:
		profile[domain.AspectBeginner] = 0.4
	}

	// Expert performance
	switch {
	case tags.hasAny(expertPerf):
		profile[domain.AspectExpert] = 0.9
	case tags.has("intermediate"):
		profile[domain.AspectExpert] = 0.7
	default:
		profile[domain.AspectExpert] = 0.4
	}

	// Width rating from fixed breakpoints; only emitted when a width exists.
	if product.WaistWidthMM != nil {
		profile[domain.AspectWidth] = widthRating(*product.WaistWidthMM)
	}

	// Stability
	switch {
	case tags.hasAny(stableTags):
		profile[domain.AspectStability] = 0.8
	case tags.hasAny(playfulTags):
		profile[domain.AspectStability] = 0.5
	default:
		profile[domain.AspectStability] = 0.6
	}

	// Agility
	switch {
	case tags.hasAny(agileTags):
		profile[domain.AspectAgility] = 0.8
	case tags.hasAny(dampTags):
		profile[domain.AspectAgility] = 0.4
	default:
		profile[domain.AspectAgility] = 0.6
	}

	// Speed
	switch {
	case tags.hasAny(speedTags):
		profile[domain.AspectSpeed] = 0.9
	case tags.hasAny([]string{"park", "freestyle"}):
		profile[domain.AspectSpeed] = 0.5
	default:
		profile[domain.AspectSpeed] = 0.6
	}

	// Hard snow
	switch {
	case tags.hasAny(hardSnowTags):
		profile[domain.AspectHardSnow] = 0.8
	case tags.hasAny([]string{"all-mountain", "piste"}):
		profile[domain.AspectHardSnow] = 0.6
	default:
		profile[domain.AspectHardSnow] = 0.4
	}

	// Soft snow
	wideEnough := product.WaistWidthMM != nil && *product.WaistWidthMM >= 100
	switch {
	case tags.hasAny(softSnowTags):
		profile[domain.AspectSoftSnow] = 0.9
	case tags.hasAny(allMountain) || wideEnough:
		profile[domain.AspectSoftSnow] = 0.7
	default:
		profile[domain.AspectSoftSnow] = 0.4
	}

	// Consistency floor: an all-mountain ski is by definition workable both
	// on and off piste, whatever its other tags say.
	if tags.hasAny(allMountain) {
		for _, aspect := range []domain.Aspect{domain.AspectOffpiste, domain.AspectPiste} {
			if profile[aspect] < 0.6 {
				profile[aspect] = 0.6
			}
		}
	}

	return profile
}

func widthRating(width float64) float64 {
	switch {
	case width < 85:
		return 0.2
	case width < 95:
		return 0.4
	case width < 105:
		return 0.6
	case width < 115:
		return 0.8
	default:
		return 1.0
	}
}

// tagSet is a product's tags plus category, lowercased for membership tests.
type tagSet struct {
	tags     map[string]bool
	category string
}

func newTagSet(product domain.ProductRecord) tagSet {
	set := make(map[string]bool, len(product.Tags))
	for _, tag := range product.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = true
		}
	}
	return tagSet{tags: set, category: strings.ToLower(product.Category)}
}

func (s tagSet) has(tag string) bool {
	return s.tags[tag] || strings.Contains(s.category, tag)
}

func (s tagSet) hasAny(tags []string) bool {
	for _, tag := range tags {
		if s.has(tag) {
			return true
		}
	}
	return false
}
