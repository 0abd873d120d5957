// Package catalog holds the immutable survey-question and financial-product
// data the recommendation pipeline runs against.  The catalog is loaded once
// at process start and never mutated afterwards, so it is safe for unlimited
// concurrent readers.
package catalog

import "strings"

// ProductType classifies a financial product.
type ProductType string

const (
	ProductSavings ProductType = "SAVINGS"
	ProductDeposit ProductType = "DEPOSIT"
	ProductCard    ProductType = "CARD"
)

// ParseProductType maps a raw string onto a ProductType.  Matching is
// case-insensitive; unknown values return ok=false so callers can apply a
// contextual default instead of failing.
func ParseProductType(raw string) (ProductType, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ProductSavings):
		return ProductSavings, true
	case string(ProductDeposit):
		return ProductDeposit, true
	case string(ProductCard):
		return ProductCard, true
	default:
		return "", false
	}
}

// SurveyOption is one selectable choice within a question.
type SurveyOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SurveyQuestion describes one survey question and its option vocabulary.
type SurveyQuestion struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Type          string         `json:"type"`
	MultiSelect   bool           `json:"multiSelect"`
	MaxSelections int            `json:"maxSelections,omitempty"`
	Options       []SurveyOption `json:"options"`
}

// FinancialProduct is one catalog entry with its eligibility metadata.
// Optional numeric bounds use pointers so "no bound" is distinguishable
// from zero.
type FinancialProduct struct {
	ID                  string      `json:"id"`
	Type                ProductType `json:"type"`
	Name                string      `json:"name"`
	Headline            string      `json:"headline"`
	Benefits            []string    `json:"benefits"`
	Caution             string      `json:"caution,omitempty"`
	MinAge              *int        `json:"minAge,omitempty"`
	MaxAge              *int        `json:"maxAge,omitempty"`
	MinMonthlyAmount    *int        `json:"minMonthlyAmount,omitempty"`
	MaxMonthlyAmount    *int        `json:"maxMonthlyAmount,omitempty"`
	SuitabilityGoals    []string    `json:"suitabilityGoals,omitempty"`
	SuitabilityHorizons []string    `json:"suitabilityHorizons,omitempty"`
	RiskProfiles        []string    `json:"riskProfiles,omitempty"`
	HighlightCategories []string    `json:"highlightCategories,omitempty"`
	DigitalFriendly     bool        `json:"digitalFriendly"`
	GuardianRequired    bool        `json:"guardianRequired"`
}

// FitsAge reports whether the product's age bounds admit the estimated age.
// A nil age (no estimate) always fits; so does a product with no bounds.
func (p FinancialProduct) FitsAge(age *int) bool {
	if age == nil {
		return true
	}
	if p.MinAge != nil && *age < *p.MinAge {
		return false
	}
	return p.MaxAge == nil || *age <= *p.MaxAge
}

// FitsMonthlyAmount reports whether the product's monthly-amount bounds
// admit the estimated allowance.  Nil estimates and unbounded products fit.
func (p FinancialProduct) FitsMonthlyAmount(amount *int) bool {
	if amount == nil {
		return true
	}
	if p.MinMonthlyAmount != nil && *amount < *p.MinMonthlyAmount {
		return false
	}
	return p.MaxMonthlyAmount == nil || *amount <= *p.MaxMonthlyAmount
}
