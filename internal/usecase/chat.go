package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"nyai-server/internal/domain"
	"nyai-server/internal/store"
)

const (
	anonymousUserID  = "anonymous"
	titleFallbackLen = 30
	newTitle         = "New Conversation"
)

// ModelClient is the resilient invocation surface the services depend on.
// GenerateText returns free-form text; GenerateJSON enforces the structured
// output contract and reports violations as errors detectable through
// isMalformedOutput.
type ModelClient interface {
	Configured() bool
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (map[string]any, error)
}

// ChatService owns the conversation lifecycle: creating conversations,
// appending turns, assembling history context and invoking the model with
// deterministic fallbacks.
type ChatService struct {
	conversations *store.ConversationStore
	llm           ModelClient
	logger        *slog.Logger

	now func() time.Time
}

// NewChatService creates a ChatService.
func NewChatService(conversations *store.ConversationStore, llm ModelClient, logger *slog.Logger) (*ChatService, error) {
	if conversations == nil {
		return nil, errors.New("usecase: conversation store must not be nil")
	}
	if llm == nil {
		return nil, errors.New("usecase: model client must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		conversations: conversations,
		llm:           llm,
		logger:        logger,
		now:           time.Now,
	}, nil
}

type ChatInput struct {
	UserID         string
	ConversationID string
	Message        string
}

type ChatOutput struct {
	Response          string
	ConversationID    string
	ConversationTitle string
}

// Chat appends the user message to its conversation (creating one when no id
// is given), asks the model for a reply with the full prior history as
// context and appends the reply. Model failures never fail the request; the
// reply degrades to an error description instead.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = anonymousUserID
	}

	now := s.unixNow()
	history := s.conversations.GetOrCreate(userID)

	conversationID := strings.TrimSpace(in.ConversationID)
	if conversationID == "" {
		conversationID = newConversationID(userID, s.now())
		history.Conversations[conversationID] = domain.Conversation{
			Title:     s.generateTitle(ctx, in.Message),
			Messages:  []domain.Message{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		history.ActiveConversation = conversationID
	} else if _, ok := history.Conversations[conversationID]; !ok {
		return ChatOutput{}, newError(ErrorNotFound, "Conversation not found", nil)
	}

	conversation := history.Conversations[conversationID]
	conversation.Messages = append(conversation.Messages, domain.Message{
		Role:      domain.RoleUser,
		Content:   in.Message,
		Timestamp: s.unixNow(),
	})
	history.Conversations[conversationID] = conversation
	// Persist the user turn before calling out so the store lock is never
	// held across the model invocation.
	s.conversations.Put(userID, history)

	conversationContext := AssembleContext(conversation.Messages, len(conversation.Messages)-1)
	response := s.generateReply(ctx, in.Message, conversationContext)

	conversation.Messages = append(conversation.Messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   response,
		Timestamp: s.unixNow(),
	})
	conversation.UpdatedAt = s.unixNow()
	history.Conversations[conversationID] = conversation
	s.conversations.Put(userID, history)

	return ChatOutput{
		Response:          response,
		ConversationID:    conversationID,
		ConversationTitle: conversation.Title,
	}, nil
}

// ConversationSummary is one entry of a user's conversation listing.
type ConversationSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CreatedAt    float64 `json:"created_at"`
	UpdatedAt    float64 `json:"updated_at"`
	MessageCount int     `json:"message_count"`
}

type ConversationListOutput struct {
	Conversations      []ConversationSummary
	ActiveConversation string
}

// ListConversations returns the user's conversations ordered most recently
// updated first, plus the active conversation pointer.
func (s *ChatService) ListConversations(userID string) ConversationListOutput {
	history := s.conversations.GetOrCreate(userID)

	summaries := make([]ConversationSummary, 0, len(history.Conversations))
	for id, conv := range history.Conversations {
		summaries = append(summaries, ConversationSummary{
			ID:           id,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt > summaries[j].UpdatedAt
	})

	return ConversationListOutput{
		Conversations:      summaries,
		ActiveConversation: history.ActiveConversation,
	}
}

type ConversationOutput struct {
	ID        string
	Title     string
	Messages  []domain.Message
	CreatedAt float64
	UpdatedAt float64
}

// GetConversation returns the full transcript of one conversation.
func (s *ChatService) GetConversation(userID, conversationID string) (ConversationOutput, error) {
	history := s.conversations.GetOrCreate(userID)
	conv, ok := history.Conversations[conversationID]
	if !ok {
		return ConversationOutput{}, newError(ErrorNotFound, "Conversation not found", nil)
	}
	return ConversationOutput{
		ID:        conversationID,
		Title:     conv.Title,
		Messages:  conv.Messages,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}, nil
}

type NewConversationOutput struct {
	ConversationID string
	Title          string
}

// NewConversation creates an empty conversation and makes it active.
func (s *ChatService) NewConversation(userID string) NewConversationOutput {
	history := s.conversations.GetOrCreate(userID)
	now := s.unixNow()

	conversationID := newConversationID(userID, s.now())
	history.Conversations[conversationID] = domain.Conversation{
		Title:     newTitle,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	history.ActiveConversation = conversationID
	s.conversations.Put(userID, history)

	return NewConversationOutput{ConversationID: conversationID, Title: newTitle}
}

// DeleteConversation removes a conversation. Deleting the active conversation
// clears the active pointer; deleting any other leaves it unchanged.
func (s *ChatService) DeleteConversation(userID, conversationID string) error {
	history := s.conversations.GetOrCreate(userID)
	if _, ok := history.Conversations[conversationID]; !ok {
		return newError(ErrorNotFound, "Conversation not found", nil)
	}
	delete(history.Conversations, conversationID)
	if history.ActiveConversation == conversationID {
		history.ActiveConversation = ""
	}
	s.conversations.Put(userID, history)
	return nil
}

// SetActiveConversation points the user's active pointer at an existing
// conversation.
func (s *ChatService) SetActiveConversation(userID, conversationID string) error {
	history := s.conversations.GetOrCreate(userID)
	if _, ok := history.Conversations[conversationID]; !ok {
		return newError(ErrorNotFound, "Conversation not found", nil)
	}
	history.ActiveConversation = conversationID
	s.conversations.Put(userID, history)
	return nil
}

// generateTitle asks the model for a short conversation title and falls back
// to a truncated copy of the first message when the call fails.
func (s *ChatService) generateTitle(ctx context.Context, firstUserPrompt string) string {
	raw, err := s.llm.GenerateText(ctx, buildTitlePrompt(firstUserPrompt))
	if err != nil {
		s.logger.Warn("title generation failed, using fallback", "error", err)
		return fallbackTitle(firstUserPrompt)
	}
	title := strings.ReplaceAll(firstLine(raw), `"`, "")
	if title == "" {
		return fallbackTitle(firstUserPrompt)
	}
	return title
}

// generateReply asks the model for the conversational answer. Failures are
// logged and reported to the user inside the reply text rather than as an
// error.
func (s *ChatService) generateReply(ctx context.Context, question, conversationContext string) string {
	response, err := s.llm.GenerateText(ctx, buildChatPrompt(question, conversationContext))
	if err != nil {
		s.logger.Error("chat model invocation failed", "error", err)
		return fmt.Sprintf("Sorry, an error occurred while processing your request: %v", err)
	}
	return response
}

func fallbackTitle(firstUserPrompt string) string {
	if len([]rune(firstUserPrompt)) > titleFallbackLen {
		return truncateRunes(firstUserPrompt, titleFallbackLen) + "..."
	}
	return firstUserPrompt
}

// newConversationID builds the id {user_id}_{unix_seconds}. Two conversations
// created for one user within the same second collide and the later one wins.
func newConversationID(userID string, now time.Time) string {
	return fmt.Sprintf("%s_%d", userID, now.Unix())
}

func (s *ChatService) unixNow() float64 {
	return float64(s.now().UnixNano()) / float64(time.Second)
}
