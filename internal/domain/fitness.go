package domain

// Aspect names one skiing discipline or condition a fitness score is computed
// for. The set is closed; the evaluator emits a score for every aspect it can
// derive from the record's tags, category and waist width.
type Aspect string

const (
	AspectOffpiste  Aspect = "offpiste_performance"
	AspectPiste     Aspect = "piste_performance"
	AspectPark      Aspect = "park_performance"
	AspectTouring   Aspect = "touring_capability"
	AspectBeginner  Aspect = "beginner_friendly"
	AspectExpert    Aspect = "expert_performance"
	AspectWidth     Aspect = "width_rating"
	AspectStability Aspect = "stability"
	AspectAgility   Aspect = "agility"
	AspectSpeed     Aspect = "speed_performance"
	AspectHardSnow  Aspect = "hard_snow_performance"
	AspectSoftSnow  Aspect = "soft_snow_performance"
)

// FitnessProfile maps aspects to suitability scores in [0,1]. Scores are
// derived from tags, not measured properties; a mid-range value means
// "unknown", not "bad". Profiles are cheap to compute and are never cached
// across queries.
type FitnessProfile map[Aspect]float64

// Get returns the score for aspect, or the neutral 0.5 when the profile has no
// entry for it.
func (p FitnessProfile) Get(aspect Aspect) float64 {
	if score, ok := p[aspect]; ok {
		return score
	}
	return 0.5
}

// Level buckets a raw score into one of five discrete labels. Raw 0-1 numbers
// never appear in user-facing output; only these levels do.
func Level(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent"
	case score >= 0.6:
		return "Good"
	case score >= 0.4:
		return "Moderate"
	case score >= 0.2:
		return "Limited"
	default:
		return "Poor"
	}
}
