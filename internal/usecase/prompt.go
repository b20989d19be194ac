package usecase

import (
	"fmt"
	"strings"

	"github.com/skiguide/backend/internal/domain"
)

// promptBuilder renders matched products into the structured context block the
// text generator answers from. Only non-nil specs are rendered; the generator
// never sees a field the catalog does not actually know.
type promptBuilder struct {
	evaluator *Evaluator
}

// BuildAnswerPrompt renders the single-product (or small multi-product)
// context for describe and general questions.
func (b *promptBuilder) BuildAnswerPrompt(question string, matches []domain.MatchResult) string {
	var sb strings.Builder
	sb.WriteString("You are a ski expert assistant for an online ski shop.\n")
	sb.WriteString("Answer the customer's question using ONLY the product data below.\n")
	sb.WriteString("If the data does not contain the answer, say so. Never invent numbers.\n\n")

	for _, match := range matches {
		b.writeProduct(&sb, match.Product)
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer in 2-3 sentences, conversational but factual:")
	return sb.String()
}

// BuildComparisonPrompt renders a two-sided context for comparison questions.
// Fitness levels are filtered to the strong ones so the generator leads with
// what each ski is actually good at.
func (b *promptBuilder) BuildComparisonPrompt(question string, matches []domain.MatchResult) string {
	var sb strings.Builder
	sb.WriteString("You are a ski expert assistant for an online ski shop.\n")
	sb.WriteString("Compare the products below for the customer. Use ONLY the data given.\n")
	sb.WriteString("Name the concrete difference the customer asked about, then one sentence\n")
	sb.WriteString("on which ski suits which kind of skier.\n\n")

	for _, match := range matches {
		b.writeProduct(&sb, match.Product)
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nComparison answer in 3-4 sentences:")
	return sb.String()
}

// writeProduct renders one record as a labelled block of known facts.
func (b *promptBuilder) writeProduct(sb *strings.Builder, p domain.ProductRecord) {
	fmt.Fprintf(sb, "Product: %s\n", p.Title)
	if p.Brand != "" {
		fmt.Fprintf(sb, "  Brand: %s\n", p.Brand)
	}
	if p.Category != "" {
		fmt.Fprintf(sb, "  Category: %s\n", p.Category)
	}
	if price := p.CurrentPrice(); price != nil {
		if p.HasDiscount() {
			fmt.Fprintf(sb, "  Price: %.0f kr (reduced from %.0f kr)\n", *p.SalePrice, *p.Price)
		} else {
			fmt.Fprintf(sb, "  Price: %.0f kr\n", *price)
		}
	}
	if p.WaistWidthMM != nil {
		fmt.Fprintf(sb, "  Waist width: %.0f mm\n", *p.WaistWidthMM)
	}
	if p.WeightGrams != nil {
		fmt.Fprintf(sb, "  Weight: %.0f g per ski\n", *p.WeightGrams)
	}
	if p.TurnRadiusM != nil {
		fmt.Fprintf(sb, "  Turn radius: %.1f m\n", *p.TurnRadiusM)
	}
	if len(p.LengthsCM) > 0 {
		fmt.Fprintf(sb, "  Available lengths: %s cm\n", joinInts(p.LengthsCM))
	}
	if p.TwinTip != nil {
		fmt.Fprintf(sb, "  Twin-tip: %s\n", yesNo(*p.TwinTip))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(sb, "  Characteristics: %s\n", strings.Join(p.Tags, ", "))
	}
	if b.evaluator != nil {
		b.writeStrengths(sb, p)
	}
	sb.WriteString("\n")
}

// writeStrengths lists the aspects the ski rates Good or better on. Raw scores
// stay internal; the generator only sees the discrete levels.
func (b *promptBuilder) writeStrengths(sb *strings.Builder, p domain.ProductRecord) {
	profile := b.evaluator.Evaluate(p)
	var strengths []string
	for _, aspect := range reportedAspects {
		level := domain.Level(profile.Get(aspect))
		if level == "Excellent" || level == "Good" {
			strengths = append(strengths, fmt.Sprintf("%s: %s", aspectLabels[aspect], level))
		}
	}
	if len(strengths) > 0 {
		fmt.Fprintf(sb, "  Strengths: %s\n", strings.Join(strengths, "; "))
	}
}

// reportedAspects fixes the order strengths appear in, keeping prompts
// deterministic for the cache and for tests.
var reportedAspects = []domain.Aspect{
	domain.AspectOffpiste,
	domain.AspectPiste,
	domain.AspectPark,
	domain.AspectTouring,
	domain.AspectBeginner,
	domain.AspectExpert,
	domain.AspectStability,
	domain.AspectAgility,
	domain.AspectSpeed,
	domain.AspectHardSnow,
	domain.AspectSoftSnow,
}

var aspectLabels = map[domain.Aspect]string{
	domain.AspectOffpiste:  "off-piste",
	domain.AspectPiste:     "piste",
	domain.AspectPark:      "park",
	domain.AspectTouring:   "touring",
	domain.AspectBeginner:  "beginner friendliness",
	domain.AspectExpert:    "expert performance",
	domain.AspectStability: "stability",
	domain.AspectAgility:   "agility",
	domain.AspectSpeed:     "speed",
	domain.AspectHardSnow:  "hard snow",
	domain.AspectSoftSnow:  "soft snow",
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
