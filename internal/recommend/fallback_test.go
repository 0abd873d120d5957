package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/catalog"
)

func TestFallbackResult_SplitsByProductType(t *testing.T) {
	result := FallbackResult(testProducts(), DefaultParserLimits())
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Summary)
	assert.NotEmpty(t, result.Insights)

	for _, rec := range result.Savings {
		assert.NotEqual(t, catalog.ProductCard, rec.Type)
	}
	for _, rec := range result.Cards {
		assert.Equal(t, catalog.ProductCard, rec.Type)
	}
	assert.Len(t, result.Cards, 1)
	assert.Len(t, result.Savings, 3)
}

func TestFallbackResult_UsesCannedCopyForKnownProducts(t *testing.T) {
	result := FallbackResult(testProducts(), DefaultParserLimits())
	require.NotNil(t, result)

	var sav *ProductRecommendation
	for i := range result.Savings {
		if result.Savings[i].ProductID == "SAV001" {
			sav = &result.Savings[i]
		}
	}
	require.NotNil(t, sav)
	assert.Equal(t, fallbackCopyByProduct["SAV001"].Headline, sav.Headline)
	assert.Equal(t, fallbackCopyByProduct["SAV001"].NextAction, sav.NextAction)
}

func TestFallbackResult_UnknownProductKeepsCatalogHeadline(t *testing.T) {
	p := catalog.FinancialProduct{
		ID: "NEW999", Type: catalog.ProductSavings, Name: "신상품",
		Headline: "새로 나온 적금", Benefits: []string{"혜택"},
	}
	result := FallbackResult([]catalog.FinancialProduct{p}, DefaultParserLimits())
	require.NotNil(t, result)
	require.Len(t, result.Savings, 1)
	assert.Equal(t, "새로 나온 적금", result.Savings[0].Headline)
	assert.Equal(t, fallbackNextAction, result.Savings[0].NextAction)
}

func TestFallbackResult_RespectsCaps(t *testing.T) {
	var many []catalog.FinancialProduct
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		many = append(many, catalog.FinancialProduct{
			ID: id, Type: catalog.ProductSavings, Name: id, Headline: "h", Benefits: []string{"b"},
		})
	}
	result := FallbackResult(many, ParserLimits{MaxInsights: 4, MaxSavings: 2, MaxCards: 2})
	require.NotNil(t, result)
	assert.Len(t, result.Savings, 2)
}

func TestFallbackResult_NilWhenNoCandidates(t *testing.T) {
	assert.Nil(t, FallbackResult(nil, DefaultParserLimits()))
}

func TestFallbackResult_EmptyBenefitsGetPlaceholder(t *testing.T) {
	p := catalog.FinancialProduct{ID: "X", Type: catalog.ProductCard, Name: "x", Headline: "h"}
	result := FallbackResult([]catalog.FinancialProduct{p}, DefaultParserLimits())
	require.NotNil(t, result)
	require.Len(t, result.Cards, 1)
	assert.Equal(t, []string{placeholderBenefit}, result.Cards[0].Benefits)
}
