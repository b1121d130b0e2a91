package store

import (
	"sync"

	"nyai-server/internal/domain"
)

// DocumentStore is a thread-safe map of document id to extracted document.
// Like ConversationStore it copies values in and out; document text is
// immutable after creation, so copies are cheap top-level clones.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]domain.Document
}

// NewDocumentStore returns an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: map[string]domain.Document{}}
}

// Put stores a copy of doc under its id, replacing any existing document
// with the same id (last-writer-wins).
func (s *DocumentStore) Put(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc.Clone()
}

// Get returns a copy of the document with the given id, or false when none
// exists.
func (s *DocumentStore) Get(id string) (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return domain.Document{}, false
	}
	return d.Clone(), true
}

// Delete removes the document with the given id and returns the removed
// value, or false when none existed.
func (s *DocumentStore) Delete(id string) (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return domain.Document{}, false
	}
	delete(s.docs, id)
	return d, true
}

// List returns a point-in-time copy of every stored document keyed by id.
func (s *DocumentStore) List() map[string]domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.Document, len(s.docs))
	for id, d := range s.docs {
		out[id] = d.Clone()
	}
	return out
}
