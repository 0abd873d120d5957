package recommend

import "strings"

// Well-known question ids in the survey catalog.  The context builder keys
// off these directly; questions outside this set still reach the prompt via
// the answer summary.
const (
	questionAgeBand         = "age-band"
	questionMonthlyFunds    = "monthly-funds"
	questionSavingGoal      = "saving-goal"
	questionSpendFocus      = "spend-focus"
	questionHorizon         = "horizon"
	questionRiskAttitude    = "risk-attitude"
	questionDigitalBehavior = "digital-behavior"
	questionGuardianPref    = "guardian-preference"
	questionCardUsage       = "card-usage"
)

// ageHint maps age-band option ids onto an estimated age in years.
var ageHint = map[string]int{
	"middle-1-2": 14,
	"middle-3":   15,
	"high-1":     16,
	"high-2":     17,
	"high-3":     18,
}

// allowanceHint maps monthly-funds option ids onto an estimated monthly
// allowance in KRW.
var allowanceHint = map[string]int{
	"lt-5":  40000,
	"5-10":  75000,
	"10-20": 150000,
	"20-30": 250000,
	"gt-30": 400000,
}

// SurveyContext is the typed per-request profile derived from raw answers.
// Nil pointers mean "no estimate"; empty strings mean "not answered".
// Built once, read-only afterwards.
type SurveyContext struct {
	AgeBand            string
	EstimatedAge       *int
	AllowanceBracket   string
	AllowanceAmount    *int
	SavingGoals        []string
	SavingHorizon      string
	RiskProfile        string
	SpendingFocus      []string
	DigitalBehavior    string
	GuardianPreference string
	CardUsage          string
}

// BuildSurveyContext derives a SurveyContext from the answer map.  It never
// fails: absent answers leave the corresponding field at its zero value, and
// unknown band/bracket ids simply yield no estimate.  Single-valued fields
// take the first selected option even when several are present.
func BuildSurveyContext(answers *AnswerMap) SurveyContext {
	ctx := SurveyContext{
		AgeBand:            answers.First(questionAgeBand),
		AllowanceBracket:   answers.First(questionMonthlyFunds),
		SavingHorizon:      answers.First(questionHorizon),
		RiskProfile:        answers.First(questionRiskAttitude),
		DigitalBehavior:    answers.First(questionDigitalBehavior),
		GuardianPreference: answers.First(questionGuardianPref),
		CardUsage:          answers.First(questionCardUsage),
	}

	if age, ok := ageHint[ctx.AgeBand]; ok {
		ctx.EstimatedAge = &age
	}
	if amount, ok := allowanceHint[ctx.AllowanceBracket]; ok {
		ctx.AllowanceAmount = &amount
	}

	for _, goal := range answers.Get(questionSavingGoal) {
		ctx.SavingGoals = append(ctx.SavingGoals, strings.ToLower(goal))
	}
	ctx.SpendingFocus = append(ctx.SpendingFocus, answers.Get(questionSpendFocus)...)

	return ctx
}
