package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/skiguide/backend/internal/domain"
)

// fallbackWriter renders deterministic, template-based answers from catalog
// data alone. These are the responses users get when the generator is
// unavailable, so every branch must produce a complete sentence and refuse
// explicitly when the catalog lacks the requested number.
type fallbackWriter struct {
	evaluator *Evaluator
}

// Describe answers a specific-spec question about one product.
func (w *fallbackWriter) Describe(question string, p domain.ProductRecord) string {
	q := strings.ToLower(question)

	if height, ok := riderHeight(q); ok {
		return heightFit(height, p)
	}

	switch {
	case strings.Contains(q, "price") || strings.Contains(q, "cost") || strings.Contains(q, "how much"):
		return w.priceAnswer(p)
	case strings.Contains(q, "waist") || strings.Contains(q, "wide") || strings.Contains(q, "width"):
		if p.WaistWidthMM != nil {
			return fmt.Sprintf("The %s has a waist width of %.0f mm.", p.Title, *p.WaistWidthMM)
		}
		return fmt.Sprintf("I don't have waist width data for the %s.", p.Title)
	case strings.Contains(q, "weight") || strings.Contains(q, "weigh") || strings.Contains(q, "heavy"):
		if p.WeightGrams != nil {
			return fmt.Sprintf("The %s weighs %.0f g per ski.", p.Title, *p.WeightGrams)
		}
		return fmt.Sprintf("I don't have verified weight data for the %s.", p.Title)
	case strings.Contains(q, "length"):
		if len(p.LengthsCM) > 0 {
			return fmt.Sprintf("The %s is available in lengths %s cm.", p.Title, joinInts(p.LengthsCM))
		}
		return fmt.Sprintf("I don't have length information for the %s.", p.Title)
	case strings.Contains(q, "twin"):
		if p.TwinTip != nil {
			if *p.TwinTip {
				return fmt.Sprintf("Yes, the %s is a twin-tip ski.", p.Title)
			}
			return fmt.Sprintf("No, the %s is not a twin-tip ski.", p.Title)
		}
		return fmt.Sprintf("I don't have twin-tip information for the %s.", p.Title)
	case strings.Contains(q, "radius") || strings.Contains(q, "turn"):
		if p.TurnRadiusM != nil {
			return fmt.Sprintf("The %s has a turn radius of %.1f m.", p.Title, *p.TurnRadiusM)
		}
		return fmt.Sprintf("I don't have verified turn radius data for the %s.", p.Title)
	}

	return w.specSummary(p)
}

// priceAnswer quotes the effective price, naming the discount when one exists.
func (w *fallbackWriter) priceAnswer(p domain.ProductRecord) string {
	price := p.CurrentPrice()
	if price == nil {
		return fmt.Sprintf("I don't have price information for the %s.", p.Title)
	}
	if p.HasDiscount() {
		saved := *p.Price - *p.SalePrice
		return fmt.Sprintf("The %s costs %.0f kr, reduced from %.0f kr (you save %.0f kr).",
			p.Title, *p.SalePrice, *p.Price, saved)
	}
	return fmt.Sprintf("The %s costs %.0f kr.", p.Title, *price)
}

// specSummary is the catch-all describe answer: every known spec in one
// paragraph.
func (w *fallbackWriter) specSummary(p domain.ProductRecord) string {
	var parts []string
	if price := p.CurrentPrice(); price != nil {
		parts = append(parts, fmt.Sprintf("costs %.0f kr", *price))
	}
	if p.WaistWidthMM != nil {
		parts = append(parts, fmt.Sprintf("has a %.0f mm waist", *p.WaistWidthMM))
	}
	if p.WeightGrams != nil {
		parts = append(parts, fmt.Sprintf("weighs %.0f g per ski", *p.WeightGrams))
	}
	if len(p.LengthsCM) > 0 {
		parts = append(parts, fmt.Sprintf("comes in lengths %s cm", joinInts(p.LengthsCM)))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("The %s is in our catalog, but I don't have detailed specs for it.", p.Title)
	}
	return fmt.Sprintf("The %s %s.", p.Title, joinClauses(parts))
}

// Compare answers a two-product comparison from the spec the question names.
// When the question names no spec, it falls back to a price-and-character
// summary of both skis.
func (w *fallbackWriter) Compare(question string, a, b domain.ProductRecord) string {
	q := strings.ToLower(question)

	if height, ok := riderHeight(q); ok {
		return compareHeightFit(height, a, b)
	}

	switch {
	case strings.Contains(q, "wider") || strings.Contains(q, "waist") || strings.Contains(q, "width") || strings.Contains(q, "narrower"):
		return compareNumeric(q, a, b, a.WaistWidthMM, b.WaistWidthMM, "waist width", "mm",
			strings.Contains(q, "narrower"))
	case strings.Contains(q, "lighter") || strings.Contains(q, "heavier") || strings.Contains(q, "weight"):
		return compareNumeric(q, a, b, a.WeightGrams, b.WeightGrams, "weight", "g",
			!strings.Contains(q, "heavier"))
	case strings.Contains(q, "cheaper") || strings.Contains(q, "price") || strings.Contains(q, "cost") || strings.Contains(q, "expensive"):
		return comparePrice(q, a, b)
	case strings.Contains(q, "radius") || strings.Contains(q, "tighter"):
		return compareNumeric(q, a, b, a.TurnRadiusM, b.TurnRadiusM, "turn radius", "m", true)
	}

	if winner := w.compareAspect(q, a, b); winner != "" {
		return winner
	}

	return fmt.Sprintf("%s %s", w.specSummary(a), w.specSummary(b))
}

// compareNumeric resolves "which is wider/lighter"-style questions. lowerWins
// flips the comparison for specs where less is better.
func compareNumeric(q string, a, b domain.ProductRecord, va, vb *float64, label, unit string, lowerWins bool) string {
	if va == nil && vb == nil {
		return fmt.Sprintf("I don't have %s data for the %s or the %s, so I can't make that comparison.",
			label, a.Title, b.Title)
	}
	if va == nil || vb == nil {
		missing := a.Title
		if va != nil {
			missing = b.Title
		}
		return fmt.Sprintf("I don't have %s data for the %s, so I can't make that comparison.", label, missing)
	}
	if *va == *vb {
		return fmt.Sprintf("The %s and the %s have the same %s: %.0f %s.", a.Title, b.Title, label, *va, unit)
	}

	winner, loser := a, b
	wv, lv := *va, *vb
	if (lowerWins && *vb < *va) || (!lowerWins && *vb > *va) {
		winner, loser = b, a
		wv, lv = *vb, *va
	}
	diff := wv - lv
	if diff < 0 {
		diff = -diff
	}
	return fmt.Sprintf("The %s has a %s of %.0f %s versus %.0f %s for the %s, a difference of %.0f %s.",
		winner.Title, label, wv, unit, lv, unit, loser.Title, diff, unit)
}

func comparePrice(q string, a, b domain.ProductRecord) string {
	pa, pb := a.CurrentPrice(), b.CurrentPrice()
	if pa == nil && pb == nil {
		return fmt.Sprintf("I don't have price data for the %s or the %s, so I can't compare prices.",
			a.Title, b.Title)
	}
	if pa == nil || pb == nil {
		missing := a.Title
		if pa != nil {
			missing = b.Title
		}
		return fmt.Sprintf("I don't have price data for the %s, so I can't compare prices.", missing)
	}
	if *pa == *pb {
		return fmt.Sprintf("The %s and the %s both cost %.0f kr.", a.Title, b.Title, *pa)
	}

	cheaper, pricier := a, b
	cv, pv := *pa, *pb
	if *pb < *pa {
		cheaper, pricier = b, a
		cv, pv = *pb, *pa
	}
	return fmt.Sprintf("The %s costs %.0f kr, which is %.0f kr less than the %s at %.0f kr.",
		cheaper.Title, cv, pv-cv, pricier.Title, pv)
}

// A ski up to this many cm over the rider's height still counts as a fit.
const maxLengthOverHeightCM = 5

var riderHeightRegex = regexp.MustCompile(`\b(1[4-9][0-9]|2[0-1][0-9]|220)\b`)

// riderHeight finds a plausible rider height (140-220 cm) in the question.
// Only questions that actually talk about the rider are considered, so a bare
// ski length like "in 184 cm" is never mistaken for one.
func riderHeight(q string) (int, bool) {
	if !strings.Contains(q, "tall") && !strings.Contains(q, "height") &&
		!strings.Contains(q, "i'm") && !strings.Contains(q, "i am") {
		return 0, false
	}
	m := riderHeightRegex.FindString(q)
	if m == "" {
		return 0, false
	}
	h, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return h, true
}

// fitLength returns the longest available length within the rider's limit,
// or 0 when every length runs long.
func fitLength(p domain.ProductRecord, limit int) int {
	best := 0
	for _, l := range p.LengthsCM {
		if l <= limit && l > best {
			best = l
		}
	}
	return best
}

// heightFit answers a single-product length-fit question.
func heightFit(height int, p domain.ProductRecord) string {
	if len(p.LengthsCM) == 0 {
		return fmt.Sprintf("I don't have length data for the %s, so I can't judge the fit for %d cm.", p.Title, height)
	}
	limit := height + maxLengthOverHeightCM
	best := fitLength(p, limit)
	if best == 0 {
		return fmt.Sprintf("The %s only comes in lengths %s cm, which all run long for someone %d cm tall (max %d cm).",
			p.Title, joinInts(p.LengthsCM), height, limit)
	}
	return fmt.Sprintf("For someone %d cm tall, the %s fits best in the %d cm length (available lengths: %s cm).",
		height, p.Title, best, joinInts(p.LengthsCM))
}

// compareHeightFit checks both skis against the rider's length limit and
// recommends the closer fit.
func compareHeightFit(height int, a, b domain.ProductRecord) string {
	if len(a.LengthsCM) == 0 && len(b.LengthsCM) == 0 {
		return fmt.Sprintf("I don't have length data for the %s or the %s, so I can't judge the fit.", a.Title, b.Title)
	}

	limit := height + maxLengthOverHeightCM
	la, lb := fitLength(a, limit), fitLength(b, limit)

	switch {
	case la > 0 && lb > 0:
		best, bl := a, la
		if lb > la {
			best, bl = b, lb
		}
		return fmt.Sprintf("Both fit someone %d cm tall: the %s in %d cm and the %s in %d cm; the %s at %d cm is the closest match.",
			height, a.Title, la, b.Title, lb, best.Title, bl)
	case la > 0:
		return fmt.Sprintf("For someone %d cm tall, the %s works in the %d cm length, while the %s has no listed length at or under %d cm.",
			height, a.Title, la, b.Title, limit)
	case lb > 0:
		return fmt.Sprintf("For someone %d cm tall, the %s works in the %d cm length, while the %s has no listed length at or under %d cm.",
			height, b.Title, lb, a.Title, limit)
	default:
		return fmt.Sprintf("Neither the %s nor the %s has a listed length at or under %d cm for someone %d cm tall.",
			a.Title, b.Title, limit, height)
	}
}

// aspectQuestions maps question words to the fitness aspect they ask about.
var aspectQuestions = []struct {
	words  []string
	aspect domain.Aspect
	label  string
}{
	{[]string{"powder", "off-piste", "offpiste", "off piste"}, domain.AspectOffpiste, "off-piste skiing"},
	{[]string{"piste", "carving", "groomed"}, domain.AspectPiste, "piste skiing"},
	{[]string{"park", "freestyle", "rails", "jumps"}, domain.AspectPark, "park skiing"},
	{[]string{"touring", "uphill", "skinning"}, domain.AspectTouring, "ski touring"},
	{[]string{"beginner", "learning", "first ski"}, domain.AspectBeginner, "beginners"},
	{[]string{"expert", "advanced", "aggressive"}, domain.AspectExpert, "expert skiers"},
	{[]string{"stable", "stability"}, domain.AspectStability, "stability"},
	{[]string{"agile", "nimble", "quick turns"}, domain.AspectAgility, "agility"},
	{[]string{"fast", "speed"}, domain.AspectSpeed, "speed"},
	{[]string{"ice", "icy", "hardpack", "hard snow"}, domain.AspectHardSnow, "hard snow"},
	{[]string{"soft snow", "slush"}, domain.AspectSoftSnow, "soft snow"},
}

// compareAspect resolves "which is better for powder"-style questions through
// fitness profiles. Empty string means the question named no known aspect.
func (w *fallbackWriter) compareAspect(q string, a, b domain.ProductRecord) string {
	for _, aq := range aspectQuestions {
		if !containsAny(q, aq.words) {
			continue
		}
		pa := w.evaluator.Evaluate(a).Get(aq.aspect)
		pb := w.evaluator.Evaluate(b).Get(aq.aspect)
		switch {
		case pa > pb:
			return fmt.Sprintf("For %s, the %s is the stronger choice (%s vs %s for the %s).",
				aq.label, a.Title, domain.Level(pa), domain.Level(pb), b.Title)
		case pb > pa:
			return fmt.Sprintf("For %s, the %s is the stronger choice (%s vs %s for the %s).",
				aq.label, b.Title, domain.Level(pb), domain.Level(pa), a.Title)
		default:
			return fmt.Sprintf("For %s, the %s and the %s rate about the same (%s).",
				aq.label, a.Title, b.Title, domain.Level(pa))
		}
	}
	return ""
}

// General answers a suitability question about one product from its fitness
// profile and known specs.
func (w *fallbackWriter) General(question string, p domain.ProductRecord) string {
	q := strings.ToLower(question)

	for _, aq := range aspectQuestions {
		if !containsAny(q, aq.words) {
			continue
		}
		score := w.evaluator.Evaluate(p).Get(aq.aspect)
		level := domain.Level(score)
		switch level {
		case "Excellent":
			return fmt.Sprintf("Yes, the %s is an excellent choice for %s.", p.Title, aq.label)
		case "Good":
			return fmt.Sprintf("Yes, the %s is a good choice for %s.", p.Title, aq.label)
		case "Moderate":
			return fmt.Sprintf("The %s can handle %s, but it's not its main strength.", p.Title, aq.label)
		default:
			return fmt.Sprintf("The %s is not well suited for %s.", p.Title, aq.label)
		}
	}

	return w.specSummary(p)
}

// SearchListing renders the top matches as a short recommendation list.
func (w *fallbackWriter) SearchListing(matches []domain.MatchResult) string {
	if len(matches) == 0 {
		return "I couldn't find any skis in the catalog matching that. Try naming a brand, a model or a waist width."
	}

	limit := len(matches)
	if limit > 5 {
		limit = 5
	}

	var sb strings.Builder
	sb.WriteString("Here are the skis that best match what you're looking for:\n")
	for i := 0; i < limit; i++ {
		p := matches[i].Product
		fmt.Fprintf(&sb, "%d. %s", i+1, p.Title)
		var details []string
		if price := p.CurrentPrice(); price != nil {
			details = append(details, fmt.Sprintf("%.0f kr", *price))
		}
		if p.WaistWidthMM != nil {
			details = append(details, fmt.Sprintf("%.0f mm waist", *p.WaistWidthMM))
		}
		if len(details) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(details, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NoMatch is the answer when a lookup query resolved to zero products.
func (w *fallbackWriter) NoMatch() string {
	return "I couldn't find that ski in our catalog. Could you check the spelling, or tell me the brand and model?"
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func joinClauses(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
