package recommend

import "github.com/turtlebank/teenfin/internal/catalog"

// fallbackCopy carries the canned headline and next-action text used when a
// recommendation is assembled without the model.
type fallbackCopy struct {
	Headline   string
	NextAction string
}

// fallbackCopyByProduct holds per-product fallback copy keyed by product id.
// Products without an entry use their catalog headline and a generic next
// action.
var fallbackCopyByProduct = map[string]fallbackCopy{
	"SAV001": {
		Headline:   "적은 금액도 자동이체로 꾸준히 모을 수 있는 적금이에요.",
		NextAction: "월별 자동이체 금액을 정하고, 출석체크 미션 같은 이벤트도 함께 챙겨보세요.",
	},
	"DEP001": {
		Headline:   "짧은 기간 동안 이자를 챙길 수 있는 기본 예금이에요.",
		NextAction: "예치 기간과 중도 해지 조건을 확인한 뒤 모바일 뱅킹에서 간편하게 가입해 보세요.",
	},
	"CARD001": {
		Headline:   "일상 소비에서 캐시백을 챙기고 소비 리포트로 지출을 확인할 수 있어요.",
		NextAction: "주요 할인 가맹점과 이용 한도를 확인하고, 소비 리포트 기능을 함께 사용해 보세요.",
	},
	"CARD002": {
		Headline:   "교통·학습 관련 지출이 있다면 활용하기 좋은 카드예요.",
		NextAction: "월 할인 한도와 대상 가맹점을 확인한 뒤 교통카드/스마트폰 결제에 연결해 보세요.",
	},
}

const (
	fallbackSummary    = "설문 응답을 바탕으로 기본 추천을 준비했어요. 자세한 상담은 은행 앱에서 이어가 보세요."
	fallbackNextAction = "추가 정보가 필요하면 은행 앱이나 상담 센터에 문의해 보세요."
	fallbackInsight    = "모범 답안 대신 기본 추천을 드렸어요. 설문을 더 채우면 더 정확한 추천을 받을 수 있어요."
)

// FallbackResult assembles a deterministic result from the top-ranked
// candidates when the model path is unavailable and the fallback is enabled.
// It fills each array up to its cap from the ranked candidate order and uses
// the same cardinality rules as the parser.
func FallbackResult(candidates []catalog.FinancialProduct, limits ParserLimits) *RecommendationResult {
	result := &RecommendationResult{
		Summary:  fallbackSummary,
		Insights: []string{fallbackInsight},
	}

	for _, product := range candidates {
		rec := fallbackRecommendation(product)
		if product.Type == catalog.ProductCard {
			if len(result.Cards) < limits.MaxCards {
				result.Cards = append(result.Cards, rec)
			}
		} else if len(result.Savings) < limits.MaxSavings {
			result.Savings = append(result.Savings, rec)
		}
	}

	if len(result.Savings) == 0 && len(result.Cards) == 0 {
		return nil
	}
	return result
}

func fallbackRecommendation(product catalog.FinancialProduct) ProductRecommendation {
	headline := product.Headline
	nextAction := fallbackNextAction
	if fc, ok := fallbackCopyByProduct[product.ID]; ok {
		headline = fc.Headline
		nextAction = fc.NextAction
	}

	benefits := append([]string(nil), product.Benefits...)
	if len(benefits) == 0 {
		benefits = []string{placeholderBenefit}
	}

	return ProductRecommendation{
		ProductID:           product.ID,
		Type:                product.Type,
		Name:                product.Name,
		Headline:            headline,
		Benefits:            benefits,
		Caution:             product.Caution,
		NextAction:          nextAction,
		MinMonthlyAmount:    product.MinMonthlyAmount,
		MaxMonthlyAmount:    product.MaxMonthlyAmount,
		GuardianRequired:    product.GuardianRequired,
		HighlightCategories: append([]string(nil), product.HighlightCategories...),
		DigitalFriendly:     product.DigitalFriendly,
	}
}
