package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nyai-server/internal/usecase"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Response          string `json:"response"`
	ConversationID    string `json:"conversation_id"`
	ConversationTitle string `json:"conversation_title"`
}

// Chat sends a message and returns the AI reply.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	out, err := h.chat.Chat(c.Request.Context(), usecase.ChatInput{
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:          out.Response,
		ConversationID:    out.ConversationID,
		ConversationTitle: out.ConversationTitle,
	})
}

// ListConversations returns all conversations for a user, newest-updated
// first.
func (h *Handler) ListConversations(c *gin.Context) {
	out := h.chat.ListConversations(c.Param("user_id"))

	var active any
	if out.ActiveConversation != "" {
		active = out.ActiveConversation
	}
	c.JSON(http.StatusOK, gin.H{
		"conversations":       out.Conversations,
		"active_conversation": active,
	})
}

// GetConversation returns the full transcript of one conversation.
func (h *Handler) GetConversation(c *gin.Context) {
	out, err := h.chat.GetConversation(c.Param("user_id"), c.Param("conversation_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         out.ID,
		"title":      out.Title,
		"messages":   out.Messages,
		"created_at": out.CreatedAt,
		"updated_at": out.UpdatedAt,
	})
}

// NewConversation creates an empty conversation for a user.
func (h *Handler) NewConversation(c *gin.Context) {
	out := h.chat.NewConversation(c.Param("user_id"))
	c.JSON(http.StatusOK, gin.H{
		"conversation_id": out.ConversationID,
		"title":           out.Title,
	})
}

// DeleteConversation removes a conversation.
func (h *Handler) DeleteConversation(c *gin.Context) {
	if err := h.chat.DeleteConversation(c.Param("user_id"), c.Param("conversation_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// SetActiveConversation points the user's active pointer at a conversation.
// The conversation id is bound as a query parameter.
func (h *Handler) SetActiveConversation(c *gin.Context) {
	conversationID := strings.TrimSpace(c.Query("conversation_id"))
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "conversation_id is required"})
		return
	}
	if err := h.chat.SetActiveConversation(c.Param("user_id"), conversationID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Active conversation updated"})
}
