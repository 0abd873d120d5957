package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

func intPtr(v int) *int { return &v }

const sampleSurveyJSON = `{
  "questions": [
    {
      "id": "age-band",
      "title": "학년을 알려주세요",
      "type": "single",
      "multiSelect": false,
      "options": [
        {"id": "middle-1-2", "label": "중1~중2"},
        {"id": "high-1", "label": "고1"}
      ]
    },
    {
      "id": "saving-goal",
      "title": "저축 목표",
      "type": "multi",
      "multiSelect": true,
      "maxSelections": 3,
      "options": [
        {"id": "travel", "label": "여행"},
        {"id": "gadget", "label": "전자기기"}
      ]
    }
  ],
  "products": [
    {
      "id": "SAV001",
      "type": "SAVINGS",
      "name": "틴 적금",
      "headline": "매달 차곡차곡",
      "benefits": ["연 4% 금리"],
      "minAge": 14,
      "maxAge": 19,
      "minMonthlyAmount": 10000,
      "maxMonthlyAmount": 300000,
      "suitabilityGoals": ["travel"],
      "digitalFriendly": true
    },
    {
      "id": "CARD001",
      "type": "CARD",
      "name": "틴 체크카드",
      "headline": "용돈 관리 카드",
      "benefits": ["편의점 할인"],
      "guardianRequired": true
    }
  ]
}`

func TestParse_ValidDocument(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleSurveyJSON))
	require.NoError(t, err)

	assert.Len(t, c.Questions(), 2)
	assert.Len(t, c.Products(), 2)

	q, ok := c.Question("saving-goal")
	require.True(t, ok)
	assert.True(t, q.MultiSelect)
	assert.Equal(t, 3, q.MaxSelections)

	p, ok := c.Product("SAV001")
	require.True(t, ok)
	assert.Equal(t, ProductSavings, p.Type)
	require.NotNil(t, p.MinAge)
	assert.Equal(t, 14, *p.MinAge)
	assert.True(t, p.DigitalFriendly)
}

func TestParse_RejectsEmptySections(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"questions": [], "products": [{"id":"X","type":"CARD","name":"n","headline":"h","benefits":[]}]}`))
	assert.ErrorContains(t, err, "no questions")

	_, err = Parse(strings.NewReader(`{"questions": [{"id":"q","title":"t","type":"single","options":[]}], "products": []}`))
	assert.ErrorContains(t, err, "no products")
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"questions": [`))
	assert.Error(t, err)
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	q := SurveyQuestion{ID: "q1", Title: "t"}
	p := FinancialProduct{ID: "P1", Type: ProductCard, Name: "n"}

	_, err := New([]SurveyQuestion{q, q}, []FinancialProduct{p})
	assert.ErrorContains(t, err, "duplicate question id")

	_, err = New([]SurveyQuestion{q}, []FinancialProduct{p, p})
	assert.ErrorContains(t, err, "duplicate product id")
}

func TestNew_RejectsUnknownProductType(t *testing.T) {
	q := SurveyQuestion{ID: "q1", Title: "t"}
	p := FinancialProduct{ID: "P1", Type: "BOND", Name: "n"}
	_, err := New([]SurveyQuestion{q}, []FinancialProduct{p})
	assert.ErrorContains(t, err, "unknown type")
}

func TestValidateAnswerQuestion(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleSurveyJSON))
	require.NoError(t, err)

	assert.NoError(t, c.ValidateAnswerQuestion("age-band"))

	err = c.ValidateAnswerQuestion("ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSurveyUnknownQuestion))
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestParseProductType(t *testing.T) {
	tests := []struct {
		raw    string
		want   ProductType
		wantOK bool
	}{
		{"SAVINGS", ProductSavings, true},
		{"savings", ProductSavings, true},
		{"  Deposit ", ProductDeposit, true},
		{"CARD", ProductCard, true},
		{"LOAN", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseProductType(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestFitsAge(t *testing.T) {
	p := FinancialProduct{MinAge: intPtr(14), MaxAge: intPtr(19)}

	assert.True(t, p.FitsAge(nil), "no estimate always fits")
	assert.True(t, p.FitsAge(intPtr(14)))
	assert.True(t, p.FitsAge(intPtr(19)))
	assert.False(t, p.FitsAge(intPtr(13)))
	assert.False(t, p.FitsAge(intPtr(20)))

	unbounded := FinancialProduct{}
	assert.True(t, unbounded.FitsAge(intPtr(99)))
}

func TestFitsMonthlyAmount(t *testing.T) {
	p := FinancialProduct{MinMonthlyAmount: intPtr(10000), MaxMonthlyAmount: intPtr(300000)}

	assert.True(t, p.FitsMonthlyAmount(nil))
	assert.True(t, p.FitsMonthlyAmount(intPtr(10000)))
	assert.True(t, p.FitsMonthlyAmount(intPtr(300000)))
	assert.False(t, p.FitsMonthlyAmount(intPtr(9999)))
	assert.False(t, p.FitsMonthlyAmount(intPtr(300001)))
}
