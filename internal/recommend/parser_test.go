package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/catalog"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

func newTestParser() *Parser {
	return NewParser(DefaultParserLimits(), testLogger())
}

func TestParse_FullResponse(t *testing.T) {
	raw := `{
	  "summary": "  여행 자금을 모으고 싶은 16세 고객이에요.  ",
	  "insights": ["자동이체를 걸어두세요", "  ", "용돈 기입장을 써보세요"],
	  "savings": [
	    {
	      "productId": "SAV001",
	      "headline": "여행 목표에 딱 맞는 적금",
	      "benefits": ["연 4% 금리"],
	      "minMonthlyAmount": 10000,
	      "maxMonthlyAmount": "300,000원",
	      "guardianRequired": false,
	      "digitalFriendly": true
	    }
	  ],
	  "cards": [
	    {"productId": "CARD001", "nextAction": "앱에서 바로 발급해 보세요"}
	  ]
	}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)

	assert.Equal(t, "여행 자금을 모으고 싶은 16세 고객이에요.", result.Summary, "summary is trimmed")
	assert.Equal(t, []string{"자동이체를 걸어두세요", "용돈 기입장을 써보세요"}, result.Insights, "blank insights dropped")

	require.Len(t, result.Savings, 1)
	sav := result.Savings[0]
	assert.Equal(t, "SAV001", sav.ProductID)
	assert.Equal(t, catalog.ProductSavings, sav.Type)
	assert.Equal(t, "틴 적금", sav.Name, "name merged from catalog")
	assert.Equal(t, "여행 목표에 딱 맞는 적금", sav.Headline)
	require.NotNil(t, sav.MinMonthlyAmount)
	assert.Equal(t, 10000, *sav.MinMonthlyAmount)
	require.NotNil(t, sav.MaxMonthlyAmount)
	assert.Equal(t, 300000, *sav.MaxMonthlyAmount, "digit characters extracted from string amount")

	require.Len(t, result.Cards, 1)
	card := result.Cards[0]
	assert.Equal(t, catalog.ProductCard, card.Type)
	assert.Equal(t, "용돈 관리 카드", card.Headline, "headline falls back to catalog")
	assert.Equal(t, []string{"편의점 할인"}, card.Benefits)
	assert.True(t, card.GuardianRequired, "boolean falls back to catalog value")
}

func TestParse_CodeFenceRoundTrip(t *testing.T) {
	payload := `{"summary":"ok","savings":[{"productId":"SAV001"}],"cards":[]}`
	fenced := "```json\n" + payload + "\n```"

	plain, err := newTestParser().Parse(payload, testProducts())
	require.NoError(t, err)
	wrapped, err := newTestParser().Parse(fenced, testProducts())
	require.NoError(t, err)

	assert.Equal(t, plain, wrapped, "fenced and unfenced payloads parse identically")
}

func TestParse_Idempotent(t *testing.T) {
	raw := `{"summary":"ok","insights":["a","b"],"savings":[{"productId":"SAV001"},{"productId":"DEP001"}],"cards":[{"productId":"CARD001"}]}`

	p := newTestParser()
	first, err := p.Parse(raw, testProducts())
	require.NoError(t, err)
	second, err := p.Parse(raw, testProducts())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_DuplicateProductDropped_ScenarioB(t *testing.T) {
	raw := `{"summary":"ok","savings":[{"productId":"SAV001"},{"productId":"SAV001"}],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)

	require.Len(t, result.Savings, 1, "duplicate silently dropped, first wins")
	assert.Equal(t, "SAV001", result.Savings[0].ProductID)
	assert.Empty(t, result.Cards)
}

func TestParse_MissingSummary_ScenarioC(t *testing.T) {
	_, err := newTestParser().Parse(`{"insights":["x"]}`, testProducts())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRecoMissingSummary))
	assert.True(t, apperrors.IsUnprocessable(err))
}

func TestParse_BlankSummaryFails(t *testing.T) {
	_, err := newTestParser().Parse(`{"summary":"   ","savings":[{"productId":"SAV001"}]}`, testProducts())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRecoMissingSummary))
}

func TestParse_InvalidJSONFails(t *testing.T) {
	_, err := newTestParser().Parse(`the model rambled instead of emitting JSON`, testProducts())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRecoUnparsableOutput))
	assert.True(t, apperrors.IsUnprocessable(err))
}

func TestParse_RepairsSloppyJSON(t *testing.T) {
	// Trailing comma: strict decoding rejects it, the repair pass rescues it.
	raw := `{"summary":"ok","savings":[{"productId":"SAV001"},],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	require.Len(t, result.Savings, 1)
}

func TestParse_BothArraysEmptyFails(t *testing.T) {
	_, err := newTestParser().Parse(`{"summary":"ok","savings":[],"cards":[]}`, testProducts())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRecoNoProducts))
}

func TestParse_TruncatesBeyondCaps(t *testing.T) {
	raw := `{"summary":"ok","savings":[
	  {"productId":"S1","name":"a"},
	  {"productId":"S2","name":"b"},
	  {"productId":"S3","name":"c"},
	  {"productId":"S4","name":"d"},
	  {"productId":"S5","name":"e"}
	],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	assert.Len(t, result.Savings, 3, "savings capped after dedup")
}

func TestParse_InsightsCappedAtFour(t *testing.T) {
	raw := `{"summary":"ok","insights":["1","2","3","4","5","6"],"savings":[{"productId":"SAV001"}]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	assert.Len(t, result.Insights, 4)
}

func TestParse_SynthesizesIDFromName(t *testing.T) {
	raw := `{"summary":"ok","savings":[{"name":"Teen Saver 2000!","headline":"h"}],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	require.Len(t, result.Savings, 1)
	assert.Equal(t, "TEENSAVER2000-0", result.Savings[0].ProductID)
	assert.Equal(t, catalog.ProductSavings, result.Savings[0].Type, "unknown id defaults to the array's type")
}

func TestParse_SynthesizedIDWithoutNameUsesPlaceholder(t *testing.T) {
	raw := `{"summary":"ok","cards":[{"headline":"카드"},{"headline":"카드2"}],"savings":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	require.Len(t, result.Cards, 2)
	assert.Equal(t, "ITEM-0", result.Cards[0].ProductID)
	assert.Equal(t, "ITEM-1", result.Cards[1].ProductID)
}

func TestParse_EmptyBenefitsGetPlaceholder(t *testing.T) {
	raw := `{"summary":"ok","savings":[{"productId":"GHOST9","benefits":[]}],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	require.Len(t, result.Savings, 1)
	require.Len(t, result.Savings[0].Benefits, 1)
	assert.Equal(t, placeholderBenefit, result.Savings[0].Benefits[0])
}

func TestParse_NonStringArrayEntriesSkipped(t *testing.T) {
	raw := `{"summary":"ok","savings":[{"productId":"X1","benefits":["좋아요",42,null,{"k":"v"},"또 좋아요"]}],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	assert.Equal(t, []string{"좋아요", "또 좋아요"}, result.Savings[0].Benefits)
}

func TestParse_MalformedFieldsRecoverWithoutFailing(t *testing.T) {
	raw := `{"summary":"ok","savings":[{
	  "productId":"X1",
	  "minMonthlyAmount":"no digits here",
	  "maxMonthlyAmount":true,
	  "guardianRequired":"yes",
	  "digitalFriendly":1,
	  "type":"FUTURES"
	}],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	rec := result.Savings[0]
	assert.Nil(t, rec.MinMonthlyAmount, "unparsable amount becomes unknown")
	assert.Nil(t, rec.MaxMonthlyAmount)
	assert.False(t, rec.GuardianRequired, "non-boolean defaults to false")
	assert.False(t, rec.DigitalFriendly)
	assert.Equal(t, catalog.ProductSavings, rec.Type, "invalid type falls back to the array default")
}

func TestParse_WrongArrayCatalogProductDropped(t *testing.T) {
	// CARD001 is a card in the catalog; echoing it inside savings must not
	// produce a CARD entry there.
	raw := `{"summary":"ok","savings":[{"productId":"CARD001"},{"productId":"SAV001"}],"cards":[{"productId":"DEP001"},{"productId":"CARD001"}]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)

	require.Len(t, result.Savings, 1)
	assert.Equal(t, "SAV001", result.Savings[0].ProductID)
	assert.Equal(t, catalog.ProductSavings, result.Savings[0].Type)

	require.Len(t, result.Cards, 1)
	assert.Equal(t, "CARD001", result.Cards[0].ProductID)
	assert.Equal(t, catalog.ProductCard, result.Cards[0].Type)
}

func TestParse_WrongArrayOnlyItemsFail(t *testing.T) {
	raw := `{"summary":"ok","savings":[{"productId":"CARD001"}],"cards":[]}`

	_, err := newTestParser().Parse(raw, testProducts())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRecoNoProducts),
		"filtering can empty both arrays, which fails the response")
}

func TestParse_UnknownIDWithWrongDeclaredTypeDropped(t *testing.T) {
	raw := `{"summary":"ok","savings":[{"productId":"GHOST1","type":"card"},{"productId":"GHOST2","type":"deposit"}],"cards":[]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	require.Len(t, result.Savings, 1, "declared card type is dropped from savings")
	assert.Equal(t, "GHOST2", result.Savings[0].ProductID)
	assert.Equal(t, catalog.ProductDeposit, result.Savings[0].Type)
}

func TestParse_NonArrayProductSectionsTolerated(t *testing.T) {
	raw := `{"summary":"ok","savings":"not-an-array","cards":[{"productId":"CARD001"}]}`

	result, err := newTestParser().Parse(raw, testProducts())
	require.NoError(t, err)
	assert.Empty(t, result.Savings)
	require.Len(t, result.Cards, 1)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestSynthesizeID(t *testing.T) {
	assert.Equal(t, "TEENSAVER-3", synthesizeID("teen saver", 3))
	assert.Equal(t, "ABC123-0", synthesizeID("a-b_c 123!", 0))
	assert.Equal(t, "ITEM-7", synthesizeID("한글만 있는 이름", 7))
}
