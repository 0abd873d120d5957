package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/finchat"
	"github.com/turtlebank/teenfin/internal/llm"
)

func newChatRouter(gw llm.Gateway) *gin.Engine {
	r := newTestEngine()
	h := NewChatHandler(finchat.NewService(gw, testLogger()))
	r.POST("/api/chat/finance", h.Chat)
	return r
}

func TestChatFinanceQuestion(t *testing.T) {
	gw := &fakeGateway{enabled: true,
		reply: `{"category":"finance","confidence":0.9,"reply":"적금부터 시작해 보자."}`}
	r := newChatRouter(gw)

	rec := performJSON(t, r, http.MethodPost, "/api/chat/finance",
		finchat.Request{Question: "적금이 뭐야?", SessionID: "s-1"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp finchat.Response
	decodeBody(t, rec, &resp)
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Equal(t, "적금부터 시작해 보자.", resp.Reply)
	assert.True(t, resp.FinanceRelated)
}

func TestChatGeneratesSessionID(t *testing.T) {
	gw := &fakeGateway{enabled: true,
		reply: `{"category":"finance","confidence":0.9,"reply":"좋은 질문이야."}`}
	r := newChatRouter(gw)

	rec := performJSON(t, r, http.MethodPost, "/api/chat/finance",
		finchat.Request{Question: "용돈 관리 팁 알려줘"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp finchat.Response
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.SessionID)
}

func TestChatBlankQuestionRejected(t *testing.T) {
	r := newChatRouter(&fakeGateway{enabled: true})

	rec := performJSON(t, r, http.MethodPost, "/api/chat/finance", map[string]any{"question": ""})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "COMMON_002", body.Code)
}

func TestChatOverlongQuestionRejected(t *testing.T) {
	r := newChatRouter(&fakeGateway{enabled: true})

	rec := performJSON(t, r, http.MethodPost, "/api/chat/finance",
		map[string]any{"question": strings.Repeat("가", 501)})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatDegradesWhenGatewayFails(t *testing.T) {
	r := newChatRouter(&fakeGateway{enabled: true, err: llm.ErrNoResponse})

	rec := performJSON(t, r, http.MethodPost, "/api/chat/finance",
		finchat.Request{Question: "주식이 뭐야?"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp finchat.Response
	decodeBody(t, rec, &resp)
	assert.False(t, resp.FinanceRelated)
	assert.NotEmpty(t, resp.Reply)
}
