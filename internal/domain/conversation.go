package domain

// Role values for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn. Messages are immutable once created
// and ordered by insertion within their conversation.
type Message struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

// Conversation is an ordered thread of messages under one id, scoped to a
// user. It is mutated only by appending messages or renaming the title;
// UpdatedAt is refreshed on every mutation.
type Conversation struct {
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt float64   `json:"created_at"`
	UpdatedAt float64   `json:"updated_at"`
}

// Clone returns a deep copy whose message slice is independent of the
// original, so callers can append without sharing backing arrays.
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// ConversationHistory holds every conversation for one user plus the active
// conversation pointer. ActiveConversation, when non-empty, always keys an
// existing entry in Conversations.
type ConversationHistory struct {
	Conversations      map[string]Conversation `json:"conversations"`
	ActiveConversation string                  `json:"active_conversation,omitempty"`
}

// NewConversationHistory returns an empty history.
func NewConversationHistory() ConversationHistory {
	return ConversationHistory{Conversations: map[string]Conversation{}}
}

// Clone returns a deep copy of the history.
func (h ConversationHistory) Clone() ConversationHistory {
	out := ConversationHistory{
		Conversations:      make(map[string]Conversation, len(h.Conversations)),
		ActiveConversation: h.ActiveConversation,
	}
	for id, conv := range h.Conversations {
		out.Conversations[id] = conv.Clone()
	}
	return out
}
