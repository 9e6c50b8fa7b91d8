package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lunatwin-backend/internal/http/response"
	"github.com/yungbote/lunatwin-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GET /api/chat/messages
func (ch *ChatHandler) ListMessages(c *gin.Context) {
	msgs, err := ch.chatService.Messages(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

// POST /api/chat/messages
// body: { "question": "..." }
func (ch *ChatHandler) Ask(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ex, err := ch.chatService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, ex)
}

// GET /api/chat/suggestions
func (ch *ChatHandler) Suggestions(c *gin.Context) {
	response.RespondOK(c, gin.H{"suggestions": ch.chatService.Suggestions()})
}
