// Package recommend implements the survey-to-recommendation pipeline:
// building a typed profile from raw answers, scoring catalog products,
// composing the model prompt, and parsing the model reply into a typed
// result.  All per-request values are built, used, and discarded within one
// call; the only shared state is the immutable catalog.
package recommend

import "github.com/turtlebank/teenfin/internal/catalog"

// Answer is one respondent selection: a question id plus the chosen option
// ids for that question.
type Answer struct {
	QuestionID        string   `json:"questionId" binding:"required"`
	SelectedOptionIDs []string `json:"selectedOptionIds" binding:"required,min=1,max=5"`
}

// Request is the full pipeline input: the ordered answer list plus optional
// free-form prompt parameters forwarded verbatim to the prompt composer.
type Request struct {
	Answers      []Answer          `json:"answers" binding:"required,min=1"`
	PromptParams map[string]string `json:"promptParams,omitempty"`
}

// AnswerMap preserves answer order while giving keyed access.  Later answers
// for the same question id overwrite earlier ones without changing position.
type AnswerMap struct {
	order  []string
	values map[string][]string
}

// NewAnswerMap builds an AnswerMap from the raw answer list.
func NewAnswerMap(answers []Answer) *AnswerMap {
	m := &AnswerMap{values: make(map[string][]string, len(answers))}
	for _, a := range answers {
		if _, seen := m.values[a.QuestionID]; !seen {
			m.order = append(m.order, a.QuestionID)
		}
		m.values[a.QuestionID] = append([]string(nil), a.SelectedOptionIDs...)
	}
	return m
}

// Get returns the selected option ids for a question, or nil when unanswered.
func (m *AnswerMap) Get(questionID string) []string {
	return m.values[questionID]
}

// First returns the first selected option id for a question, or "" when the
// question was not answered.
func (m *AnswerMap) First(questionID string) string {
	if ids := m.values[questionID]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// QuestionIDs returns the question ids in answer order.
func (m *AnswerMap) QuestionIDs() []string { return m.order }

// Len returns the number of answered questions.
func (m *AnswerMap) Len() int { return len(m.order) }

// ProductRecommendation is one recommended product as surfaced to the caller.
// It merges the model's phrasing with catalog facts; immutable once built.
type ProductRecommendation struct {
	ProductID           string              `json:"productId"`
	Type                catalog.ProductType `json:"type"`
	Name                string              `json:"name"`
	Headline            string              `json:"headline"`
	Benefits            []string            `json:"benefits"`
	Caution             string              `json:"caution,omitempty"`
	NextAction          string              `json:"nextAction,omitempty"`
	MinMonthlyAmount    *int                `json:"minMonthlyAmount,omitempty"`
	MaxMonthlyAmount    *int                `json:"maxMonthlyAmount,omitempty"`
	GuardianRequired    bool                `json:"guardianRequired"`
	HighlightCategories []string            `json:"highlightCategories,omitempty"`
	DigitalFriendly     bool                `json:"digitalFriendly"`
}

// RecommendationResult is the typed pipeline output.  Summary is always
// non-blank and at least one of Savings/Cards is non-empty; the parser
// enforces both before a result is ever constructed.
type RecommendationResult struct {
	Summary  string                  `json:"summary"`
	Insights []string                `json:"insights"`
	Savings  []ProductRecommendation `json:"savings"`
	Cards    []ProductRecommendation `json:"cards"`
}

// PromptContext is the composed prompt pair handed to the model gateway,
// kept together with the candidates it was built from for parsing.
type PromptContext struct {
	SystemInstruction string
	UserPrompt        string
	Candidates        []catalog.FinancialProduct
}
