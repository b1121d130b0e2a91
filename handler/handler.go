// Package handler exposes the HTTP surface: chat and conversation management,
// document upload and Q&A, one-shot analysis, and the simplify/translate
// endpoints. Handlers bind and validate request bodies, delegate to the
// usecase services and map typed usecase errors onto HTTP status codes.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nyai-server/internal/extract"
	"nyai-server/internal/usecase"
)

// ChatService is the conversation surface consumed by the handlers.
type ChatService interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
	ListConversations(userID string) usecase.ConversationListOutput
	GetConversation(userID, conversationID string) (usecase.ConversationOutput, error)
	NewConversation(userID string) usecase.NewConversationOutput
	DeleteConversation(userID, conversationID string) error
	SetActiveConversation(userID, conversationID string) error
}

// DocumentService is the document Q&A surface consumed by the handlers.
type DocumentService interface {
	Upload(ctx context.Context, in usecase.UploadInput) (usecase.UploadOutput, error)
	Question(ctx context.Context, in usecase.QuestionInput) (usecase.QuestionOutput, error)
	Analyze(ctx context.Context, in usecase.AnalyzeInput) (usecase.AnalyzeOutput, error)
	ListDocuments() []usecase.DocumentSummary
	DeleteDocument(documentID string) (string, error)
}

// SimplifyService is the clause simplification surface consumed by the
// handlers.
type SimplifyService interface {
	Simplify(ctx context.Context, text string) (map[string]any, error)
	Translate(ctx context.Context, result map[string]any, targetLanguage string) (map[string]any, error)
}

// Handler wires the HTTP routes to the services.
type Handler struct {
	chat      ChatService
	documents DocumentService
	simplify  SimplifyService

	capabilities    extract.Capabilities
	modelConfigured bool
	logger          *slog.Logger
}

// New creates a Handler.
func New(chat ChatService, documents DocumentService, simplify SimplifyService, capabilities extract.Capabilities, modelConfigured bool, logger *slog.Logger) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	if documents == nil {
		return nil, errors.New("handler: document service must not be nil")
	}
	if simplify == nil {
		return nil, errors.New("handler: simplify service must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chat:            chat,
		documents:       documents,
		simplify:        simplify,
		capabilities:    capabilities,
		modelConfigured: modelConfigured,
		logger:          logger,
	}, nil
}

// Register attaches every route to the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)

	r.POST("/chat", h.Chat)
	conversations := r.Group("/conversations")
	{
		conversations.GET("/:user_id", h.ListConversations)
		conversations.GET("/:user_id/:conversation_id", h.GetConversation)
		conversations.POST("/:user_id/new", h.NewConversation)
		conversations.DELETE("/:user_id/:conversation_id", h.DeleteConversation)
		conversations.PUT("/:user_id/active", h.SetActiveConversation)
	}

	r.POST("/upload", h.Upload)
	r.POST("/question", h.Question)
	r.POST("/analyze", h.Analyze)
	r.GET("/documents", h.ListDocuments)
	r.DELETE("/documents/:document_id", h.DeleteDocument)

	r.POST("/simplify", h.Simplify)
	r.POST("/translate", h.Translate)
}

// Health reports liveness plus which optional capabilities this deployment
// carries.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    float64(time.Now().UnixNano()) / float64(time.Second),
		"gemini":       h.modelConfigured,
		"pdf_support":  h.capabilities.PDF,
		"docx_support": h.capabilities.Docx,
		"ocr_support":  h.capabilities.OCR,
	})
}

// RequestID assigns each request an id, echoed in the X-Request-ID response
// header and attached to handler log records.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs one structured record per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}

// writeError maps a service error onto an HTTP response. Untyped errors are
// reported as a generic 500 without leaking internals.
func (h *Handler) writeError(c *gin.Context, err error) {
	var svcErr *usecase.Error
	if errors.As(err, &svcErr) {
		c.JSON(statusFor(svcErr.Code), gin.H{"detail": svcErr.Detail})
		return
	}
	h.logger.Error("unhandled error", "error", err, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput, usecase.ErrorDecode, usecase.ErrorPayloadTooLarge, usecase.ErrorEmptyDocument:
		return http.StatusBadRequest
	case usecase.ErrorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
