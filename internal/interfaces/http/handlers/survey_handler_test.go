package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/llm"
	"github.com/turtlebank/teenfin/internal/recommend"
)

const validModelReply = `{"summary":"안전 우선 저축 플랜","insights":["자동이체를 걸어두면 좋아요"],"savings":[{"productId":"SAV001"}],"cards":[{"productId":"CARD001"}]}`

func newSurveyRouter(t *testing.T, gw llm.Gateway, opts recommend.Options) (*gin.Engine, *catalog.Catalog) {
	t.Helper()
	cat := testCatalog(t)
	svc := recommend.NewService(cat, gw, opts, testLogger())
	h := NewSurveyHandler(cat, svc)

	r := newTestEngine()
	r.GET("/api/survey", h.Questions)
	r.POST("/api/recommendations", h.Recommend)
	return r, cat
}

func surveyAnswers() []recommend.Answer {
	return []recommend.Answer{
		{QuestionID: "age-band", SelectedOptionIDs: []string{"middle-3"}},
		{QuestionID: "risk-attitude", SelectedOptionIDs: []string{"safety-first"}},
	}
}

func TestQuestionsReturnsCatalog(t *testing.T) {
	r, cat := newSurveyRouter(t, &fakeGateway{enabled: true, reply: validModelReply}, recommend.Options{})

	rec := performJSON(t, r, http.MethodGet, "/api/survey", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Questions []catalog.SurveyQuestion `json:"questions"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Questions, len(cat.Questions()))
	assert.Equal(t, "age-band", body.Questions[0].ID)
}

func TestRecommendSuccess(t *testing.T) {
	r, _ := newSurveyRouter(t, &fakeGateway{enabled: true, reply: validModelReply}, recommend.Options{})

	rec := performJSON(t, r, http.MethodPost, "/api/recommendations",
		recommend.Request{Answers: surveyAnswers()})

	require.Equal(t, http.StatusOK, rec.Code)
	var result recommend.RecommendationResult
	decodeBody(t, rec, &result)
	assert.Equal(t, "안전 우선 저축 플랜", result.Summary)
	require.Len(t, result.Savings, 1)
	assert.Equal(t, "SAV001", result.Savings[0].ProductID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecommendUnknownQuestion(t *testing.T) {
	r, _ := newSurveyRouter(t, &fakeGateway{enabled: true, reply: validModelReply}, recommend.Options{})

	rec := performJSON(t, r, http.MethodPost, "/api/recommendations",
		recommend.Request{Answers: []recommend.Answer{
			{QuestionID: "no-such-question", SelectedOptionIDs: []string{"x"}},
		}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "SURVEY_001", body.Code)
	assert.NotEmpty(t, body.RequestID)
}

func TestRecommendEmptyBody(t *testing.T) {
	r, _ := newSurveyRouter(t, &fakeGateway{enabled: true, reply: validModelReply}, recommend.Options{})

	rec := performJSON(t, r, http.MethodPost, "/api/recommendations", map[string]any{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "COMMON_002", body.Code)
}

func TestRecommendGatewayDisabled(t *testing.T) {
	r, _ := newSurveyRouter(t, llm.Disabled{}, recommend.Options{})

	rec := performJSON(t, r, http.MethodPost, "/api/recommendations",
		recommend.Request{Answers: surveyAnswers()})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "RECO_001", body.Code)
}

func TestRecommendUnparsableReply(t *testing.T) {
	r, _ := newSurveyRouter(t, &fakeGateway{enabled: true, reply: `{"insights":[]}`}, recommend.Options{})

	rec := performJSON(t, r, http.MethodPost, "/api/recommendations",
		recommend.Request{Answers: surveyAnswers()})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "RECO_004", body.Code)
}
