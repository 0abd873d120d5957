package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
)

func intPtr(v int) *int { return &v }

// testQuestions covers the well-known question vocabulary used by the
// context builder.
func testQuestions() []catalog.SurveyQuestion {
	single := func(id, title string, optionIDs ...string) catalog.SurveyQuestion {
		opts := make([]catalog.SurveyOption, len(optionIDs))
		for i, oid := range optionIDs {
			opts[i] = catalog.SurveyOption{ID: oid, Label: "label-" + oid}
		}
		return catalog.SurveyQuestion{ID: id, Title: title, Type: "single", Options: opts}
	}
	return []catalog.SurveyQuestion{
		single("age-band", "학년", "middle-1-2", "middle-3", "high-1", "high-2", "high-3"),
		single("monthly-funds", "월 용돈", "lt-5", "5-10", "10-20", "20-30", "gt-30"),
		{ID: "saving-goal", Title: "저축 목표", Type: "multi", MultiSelect: true, MaxSelections: 3,
			Options: []catalog.SurveyOption{{ID: "travel", Label: "여행"}, {ID: "gadget", Label: "전자기기"}}},
		{ID: "spend-focus", Title: "소비 카테고리", Type: "multi", MultiSelect: true,
			Options: []catalog.SurveyOption{{ID: "food", Label: "음식"}, {ID: "transport", Label: "교통"}}},
		single("horizon", "계획 기간", "short", "long"),
		single("risk-attitude", "위험 선호", "safety-first", "balanced", "growth"),
		single("digital-behavior", "디지털 성향", "mostly-digital", "balanced", "mostly-cash"),
		single("guardian-preference", "보호자 협조", "independent", "need-guardian"),
		single("card-usage", "카드 이용", "using", "interested", "not-yet"),
	}
}

func testProducts() []catalog.FinancialProduct {
	return []catalog.FinancialProduct{
		{
			ID: "SAV001", Type: catalog.ProductSavings, Name: "틴 적금",
			Headline: "매달 차곡차곡", Benefits: []string{"연 4% 금리", "자동이체 우대"},
			Caution:          "중도 해지 시 이율이 낮아져요.",
			MinAge:           intPtr(14), MaxAge: intPtr(19),
			MinMonthlyAmount: intPtr(10000), MaxMonthlyAmount: intPtr(300000),
			SuitabilityGoals: []string{"travel", "gadget"},
			SuitabilityHorizons: []string{"short"},
			RiskProfiles:     []string{"safety-first"},
			DigitalFriendly:  true,
		},
		{
			ID: "DEP001", Type: catalog.ProductDeposit, Name: "틴 예금",
			Headline: "여유 자금 보관", Benefits: []string{"단기 예치 가능"},
			MinAge:   intPtr(14), MaxAge: intPtr(19),
			RiskProfiles: []string{"safety-first", "balanced"},
		},
		{
			ID: "CARD001", Type: catalog.ProductCard, Name: "틴 체크카드",
			Headline: "용돈 관리 카드", Benefits: []string{"편의점 할인"},
			HighlightCategories: []string{"food", "transport"},
			DigitalFriendly:     true, GuardianRequired: true,
		},
		{
			ID: "ADULT01", Type: catalog.ProductSavings, Name: "성인 적금",
			Headline: "성인 전용", Benefits: []string{"고금리"},
			MinAge:   intPtr(20),
		},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(testQuestions(), testProducts())
	require.NoError(t, err)
	return c
}

func testLogger() logging.Logger { return logging.NewNopLogger() }
