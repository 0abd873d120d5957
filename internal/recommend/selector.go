package recommend

import (
	"sort"
	"strings"

	"github.com/turtlebank/teenfin/internal/catalog"
)

// DisqualifiedScore is the sentinel assigned to products whose age bounds
// exclude the estimated age.  It pushes them to the bottom of the ranking
// without removing them; the orchestrator decides whether such a list is
// usable.
const DisqualifiedScore = -100

// Scoring weights.  Additive per product; every absent context field
// contributes zero to each term it would have affected.
const (
	amountFitBonus      = 5
	amountMisfitPenalty = 10
	goalMatchBonus      = 12
	horizonMatchBonus   = 6
	riskMatchBonus      = 6
	focusMatchBonus     = 3
	digitalBonus        = 4
	cashBonus           = 3
	independencePenalty = 8
	guardianBonus       = 3
	cardUsingBonus      = 6
	cardInterestedBonus = 4
	cardNotYetBonus     = 1
)

// Selector ranks catalog products against a survey context.  It holds no
// state and never errors; scoring is deterministic for identical input.
type Selector struct{}

// NewSelector returns a ready Selector.
func NewSelector() *Selector { return &Selector{} }

// scoredProduct pairs a product with its score for ranking only; it is
// never persisted or returned.
type scoredProduct struct {
	product catalog.FinancialProduct
	score   int
}

// Select returns products reordered by descending score.  Ties keep the
// original catalog order.
func (s *Selector) Select(products []catalog.FinancialProduct, ctx SurveyContext) []catalog.FinancialProduct {
	scored := make([]scoredProduct, len(products))
	for i, p := range products {
		scored[i] = scoredProduct{product: p, score: s.Score(p, ctx)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	ranked := make([]catalog.FinancialProduct, len(scored))
	for i, sp := range scored {
		ranked[i] = sp.product
	}
	return ranked
}

// Score computes the additive suitability score of one product.
func (s *Selector) Score(p catalog.FinancialProduct, ctx SurveyContext) int {
	if ctx.EstimatedAge != nil && !p.FitsAge(ctx.EstimatedAge) {
		return DisqualifiedScore
	}

	score := 0
	if ctx.AllowanceAmount != nil && !p.FitsMonthlyAmount(ctx.AllowanceAmount) {
		score -= amountMisfitPenalty
	} else {
		score += amountFitBonus
	}

	if anyMatch(p.SuitabilityGoals, ctx.SavingGoals) {
		score += goalMatchBonus
	}
	if containsFold(p.SuitabilityHorizons, ctx.SavingHorizon) {
		score += horizonMatchBonus
	}
	if containsFold(p.RiskProfiles, ctx.RiskProfile) {
		score += riskMatchBonus
	}

	for _, focus := range ctx.SpendingFocus {
		if containsFold(p.HighlightCategories, focus) {
			score += focusMatchBonus
		}
	}

	if strings.EqualFold(ctx.DigitalBehavior, "mostly-digital") && p.DigitalFriendly {
		score += digitalBonus
	} else if strings.EqualFold(ctx.DigitalBehavior, "mostly-cash") && !p.DigitalFriendly {
		score += cashBonus
	}

	if strings.EqualFold(ctx.GuardianPreference, "independent") && p.GuardianRequired {
		score -= independencePenalty
	} else if strings.EqualFold(ctx.GuardianPreference, "need-guardian") && p.GuardianRequired {
		score += guardianBonus
	}

	if p.Type == catalog.ProductCard {
		switch strings.ToLower(ctx.CardUsage) {
		case "using":
			score += cardUsingBonus
		case "interested":
			score += cardInterestedBonus
		case "not-yet":
			score += cardNotYetBonus
		}
	}

	return score
}

// containsFold reports whether target appears in candidates under
// case-insensitive comparison.  Empty targets never match.
func containsFold(candidates []string, target string) bool {
	if target == "" {
		return false
	}
	for _, c := range candidates {
		if strings.EqualFold(c, target) {
			return true
		}
	}
	return false
}

// anyMatch reports whether any target appears in candidates.
func anyMatch(candidates, targets []string) bool {
	if len(candidates) == 0 || len(targets) == 0 {
		return false
	}
	for _, t := range targets {
		if containsFold(candidates, t) {
			return true
		}
	}
	return false
}
