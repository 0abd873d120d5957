package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
)

// notAnswered is the literal sentence rendered for every unmapped or missing
// context field; prompt fields are never left blank.
const notAnswered = "응답하지 않았습니다"

const systemInstruction = "당신은 한국 청소년을 위한 금융 코치입니다.\n" +
	"한국 은행이 제공하는 적금·예금·체크카드 상품 지식을 활용해 개인화된 추천을 제공합니다.\n" +
	"답변은 반드시 JSON 형식으로만 작성하고 추가 설명을 붙이지 마세요.\n" +
	"추천은 설문 응답과 제공된 후보 상품 목록을 기반으로 해야 하며, 존재하지 않는 상품을 만들지 마세요.\n" +
	"말투는 친근하고 따뜻한 한국어를 사용하세요."

const userPromptTemplate = `고객 나이는 ${age_sentence}, 월평균 용돈 수준은 ${allowance_sentence}입니다. 주요 소비 카테고리는 ${spending_sentence}이며, 저축 목표는 ${goal_sentence}, 계획 기간은 ${horizon_sentence}로 응답했습니다. 위험 선호도는 ${risk_sentence}, 디지털 이용 성향은 ${digital_sentence}, 보호자 협조 여부는 ${guardian_sentence}, 체크카드 이용 상태는 ${card_sentence}입니다.

출력은 JSON 객체 하나로 작성하며, summary · insights · savings · cards 키를 반드시 포함하세요. 각 배열에는 고객에게 실제로 도움이 되는 여러 조언과 상품을 채워도 됩니다.
{
  "summary": "<고객 상황을 2~3문장으로 요약>",
  "insights": [
    "<맞춤 조언 1>",
    "<맞춤 조언 2>",
    "<맞춤 조언 3>"
  ],
  "savings": [
    {
      "productId": "SAV_...",
      "headline": "<상품 헤드라인>",
      "benefits": ["<장점 1>", "<장점 2>", "<장점 3>"],
      "caution": "<주의사항>",
      "nextAction": "<다음 행동 가이드>",
      "minMonthlyAmount": 10000,
      "maxMonthlyAmount": 300000,
      "guardianRequired": true,
      "highlightCategories": ["<강조 카테고리>"],
      "digitalFriendly": true
    }
  ],
  "cards": [
    {
      "productId": "CARD_...",
      "headline": "<카드 헤드라인>",
      "benefits": ["<카드 혜택 1>", "<카드 혜택 2>"],
      "caution": "<주의사항>",
      "nextAction": "<카드를 활용하는 팁>",
      "minMonthlyAmount": 0,
      "maxMonthlyAmount": 300000,
      "guardianRequired": true,
      "highlightCategories": ["<강조 카테고리>"],
      "digitalFriendly": true
    }
  ]
}

필드 규칙:
- benefits, highlightCategories는 한글 문장이나 구로 작성한 배열입니다.
- minMonthlyAmount, maxMonthlyAmount는 숫자만 사용합니다 (원 단위, 쉼표·문자 금지).
- 후보 목록에 존재하지 않는 productId는 사용하지 않습니다.
- 고객 상황과 맞지 않는 상품은 제외하고, 배열당 최대 2개까지 자연스럽게 골라주세요.

추가 파라미터(JSON):
${prompt_parameters}

설문 응답 세부 요약:
${answer_summary}

추천 후보 상품 목록(JSON):
${candidate_catalog}
`

// Composer renders the fixed prompt template against a survey context and
// the selected candidates.  It performs no I/O and cannot fail at runtime;
// an unresolved template token is a programming error and panics.
type Composer struct {
	log logging.Logger
}

// NewComposer builds a Composer.
func NewComposer(log logging.Logger) *Composer {
	return &Composer{log: log}
}

// Compose builds the (system instruction, user prompt) pair for one request.
func (c *Composer) Compose(answers *AnswerMap,
	questions map[string]catalog.SurveyQuestion,
	ctx SurveyContext,
	promptParams map[string]string,
	candidates []catalog.FinancialProduct) PromptContext {

	tokens := map[string]string{
		"age_sentence":       ageSentence(ctx),
		"allowance_sentence": allowanceSentence(ctx),
		"spending_sentence":  listSentence(ctx.SpendingFocus),
		"goal_sentence":      listSentence(ctx.SavingGoals),
		"horizon_sentence":   orNotAnswered(ctx.SavingHorizon),
		"risk_sentence":      riskSentence(ctx),
		"digital_sentence":   digitalSentence(ctx),
		"guardian_sentence":  guardianSentence(ctx),
		"card_sentence":      cardSentence(ctx),
		"prompt_parameters":  c.serializePromptParams(promptParams),
		"answer_summary":     answerSummary(answers, questions),
		"candidate_catalog":  c.serializeCandidates(candidates),
	}

	return PromptContext{
		SystemInstruction: systemInstruction,
		UserPrompt:        applyTemplate(userPromptTemplate, tokens),
		Candidates:        candidates,
	}
}

// applyTemplate substitutes every ${token} placeholder.  A placeholder left
// unresolved after substitution means the token map and template drifted
// apart, which is a bug, so it panics rather than emitting a broken prompt.
func applyTemplate(template string, tokens map[string]string) string {
	out := template
	for key, value := range tokens {
		out = strings.ReplaceAll(out, "${"+key+"}", value)
	}
	if i := strings.Index(out, "${"); i >= 0 {
		end := strings.IndexByte(out[i:], '}')
		if end < 0 {
			end = len(out) - i - 1
		}
		panic(fmt.Sprintf("recommend: unresolved prompt token %s", out[i:i+end+1]))
	}
	return out
}

// answerSummary renders "- <question title>: <option labels>" lines for each
// answered question, resolving option ids to labels case-insensitively and
// falling back to the raw id when an option is unknown.
func answerSummary(answers *AnswerMap, questions map[string]catalog.SurveyQuestion) string {
	var b strings.Builder
	for _, questionID := range answers.QuestionIDs() {
		q, ok := questions[questionID]
		if !ok {
			continue
		}
		labels := make([]string, 0, len(answers.Get(questionID)))
		for _, optionID := range answers.Get(questionID) {
			labels = append(labels, optionLabel(q, optionID))
		}
		fmt.Fprintf(&b, "- %s: %s\n", q.Title, strings.Join(labels, ", "))
	}
	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "설문 응답 요약 없음"
	}
	return summary
}

func optionLabel(q catalog.SurveyQuestion, optionID string) string {
	for _, opt := range q.Options {
		if strings.EqualFold(opt.ID, optionID) {
			return opt.Label
		}
	}
	return optionID
}

func ageSentence(ctx SurveyContext) string {
	if ctx.EstimatedAge != nil {
		band := "(학년 미기재)"
		if ctx.AgeBand != "" {
			band = "(" + ctx.AgeBand + " 응답)"
		}
		return fmt.Sprintf("%d세 %s", *ctx.EstimatedAge, band)
	}
	if ctx.AgeBand != "" {
		return ctx.AgeBand + " (나이 미측정)"
	}
	return notAnswered
}

func allowanceSentence(ctx SurveyContext) string {
	if ctx.AllowanceAmount != nil {
		return fmt.Sprintf("%s (약 %d원)", ctx.AllowanceBracket, *ctx.AllowanceAmount)
	}
	if ctx.AllowanceBracket != "" {
		return ctx.AllowanceBracket
	}
	return notAnswered
}

func riskSentence(ctx SurveyContext) string {
	switch strings.ToLower(ctx.RiskProfile) {
	case "":
		return notAnswered
	case "safety-first":
		return "원금 보전을 가장 중시합니다"
	case "balanced":
		return "안정성과 혜택의 균형을 원합니다"
	case "growth":
		return "혜택과 적립을 더 중시합니다"
	default:
		return ctx.RiskProfile
	}
}

func digitalSentence(ctx SurveyContext) string {
	switch ctx.DigitalBehavior {
	case "":
		return notAnswered
	case "mostly-digital":
		return "모바일 앱을 주로 이용합니다"
	case "balanced":
		return "모바일과 창구를 모두 이용합니다"
	case "mostly-cash":
		return "현금/통장 사용을 선호합니다"
	default:
		return ctx.DigitalBehavior
	}
}

func guardianSentence(ctx SurveyContext) string {
	switch ctx.GuardianPreference {
	case "":
		return notAnswered
	case "need-guardian":
		return "보호자와 함께 진행하길 원합니다"
	case "independent":
		return "스스로 진행하길 원합니다"
	default:
		return ctx.GuardianPreference
	}
}

func cardSentence(ctx SurveyContext) string {
	switch ctx.CardUsage {
	case "":
		return notAnswered
	case "using":
		return "이미 체크카드를 사용 중입니다"
	case "interested":
		return "관심은 있지만 아직 발급받지 않았습니다"
	case "not-yet":
		return "체크카드를 사용해본 적이 없습니다"
	default:
		return ctx.CardUsage
	}
}

// listSentence joins multi-select values into one sentence fragment,
// replacing hyphens with spaces for readability.
func listSentence(values []string) string {
	if len(values) == 0 {
		return notAnswered
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strings.ReplaceAll(v, "-", " ")
	}
	return strings.Join(parts, ", ")
}

func orNotAnswered(v string) string {
	if v == "" {
		return notAnswered
	}
	return v
}

func (c *Composer) serializePromptParams(params map[string]string) string {
	if len(params) == 0 {
		return "{}"
	}
	data, err := json.Marshal(params)
	if err != nil {
		c.log.Warn("failed to serialize prompt parameters", logging.Err(err))
		return "{}"
	}
	return string(data)
}

// candidateView fixes the serialized field order of the candidate catalog so
// the prompt is byte-stable for identical input.
type candidateView struct {
	ProductID           string   `json:"productId"`
	Type                string   `json:"type"`
	Name                string   `json:"name"`
	Headline            string   `json:"headline"`
	Benefits            []string `json:"benefits"`
	Caution             string   `json:"caution"`
	MinAge              *int     `json:"minAge"`
	MaxAge              *int     `json:"maxAge"`
	MinMonthlyAmount    *int     `json:"minMonthlyAmount"`
	MaxMonthlyAmount    *int     `json:"maxMonthlyAmount"`
	SuitabilityGoals    []string `json:"suitabilityGoals"`
	SuitabilityHorizons []string `json:"suitabilityHorizons"`
	RiskProfiles        []string `json:"riskProfiles"`
	HighlightCategories []string `json:"highlightCategories"`
	DigitalFriendly     bool     `json:"digitalFriendly"`
	GuardianRequired    bool     `json:"guardianRequired"`
}

func (c *Composer) serializeCandidates(candidates []catalog.FinancialProduct) string {
	views := make([]candidateView, len(candidates))
	for i, p := range candidates {
		views[i] = candidateView{
			ProductID:           p.ID,
			Type:                string(p.Type),
			Name:                p.Name,
			Headline:            p.Headline,
			Benefits:            p.Benefits,
			Caution:             p.Caution,
			MinAge:              p.MinAge,
			MaxAge:              p.MaxAge,
			MinMonthlyAmount:    p.MinMonthlyAmount,
			MaxMonthlyAmount:    p.MaxMonthlyAmount,
			SuitabilityGoals:    p.SuitabilityGoals,
			SuitabilityHorizons: p.SuitabilityHorizons,
			RiskProfiles:        p.RiskProfiles,
			HighlightCategories: p.HighlightCategories,
			DigitalFriendly:     p.DigitalFriendly,
			GuardianRequired:    p.GuardianRequired,
		}
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		c.log.Warn("failed to serialize candidate catalog", logging.Err(err))
		return "[]"
	}
	return string(data)
}
