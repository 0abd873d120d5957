package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/finchat"
)

// ChatHandler serves the finance Q&A endpoint.
type ChatHandler struct {
	chat *finchat.Service
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chat *finchat.Service) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat answers one finance question.  The service degrades model failures to
// canned replies, so this endpoint only fails on malformed input.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req finchat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.chat.Chat(c.Request.Context(), req))
}
