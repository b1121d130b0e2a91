// Package store holds the in-process session state: one container for
// per-user conversation histories and one for extracted documents. Each
// container guards its map with its own mutex, so every operation is atomic
// with respect to concurrent callers. State lives only as long as the
// process and is never evicted.
package store

import (
	"sync"

	"nyai-server/internal/domain"
)

// ConversationStore is a thread-safe map of user id to conversation history.
// Values are copied on the way in and out, so no caller ever observes a
// partially written record and histories returned by Get can be mutated
// freely before being written back with Put. Put under an existing key
// replaces the stored value (last-writer-wins).
type ConversationStore struct {
	mu        sync.Mutex
	histories map[string]domain.ConversationHistory
}

// NewConversationStore returns an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{histories: map[string]domain.ConversationHistory{}}
}

// Put stores a copy of the history under userID, replacing any existing one.
func (s *ConversationStore) Put(userID string, history domain.ConversationHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[userID] = history.Clone()
}

// Get returns a copy of the history for userID, or false when none exists.
func (s *ConversationStore) Get(userID string) (domain.ConversationHistory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histories[userID]
	if !ok {
		return domain.ConversationHistory{}, false
	}
	return h.Clone(), true
}

// GetOrCreate returns a copy of the history for userID, creating and storing
// an empty one the first time the user id is seen. Creation happens exactly
// once per user id regardless of concurrent callers.
func (s *ConversationStore) GetOrCreate(userID string) domain.ConversationHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histories[userID]
	if !ok {
		h = domain.NewConversationHistory()
		s.histories[userID] = h
	}
	return h.Clone()
}

// Delete removes the history for userID and returns the removed value, or
// false when none existed.
func (s *ConversationStore) Delete(userID string) (domain.ConversationHistory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histories[userID]
	if !ok {
		return domain.ConversationHistory{}, false
	}
	delete(s.histories, userID)
	return h, true
}

// List returns a point-in-time copy of every stored history keyed by user id.
func (s *ConversationStore) List() map[string]domain.ConversationHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.ConversationHistory, len(s.histories))
	for id, h := range s.histories {
		out[id] = h.Clone()
	}
	return out
}
