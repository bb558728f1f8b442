package auth

import (
	"sync"

	"github.com/sdi-labs/tubewise/internal/models"
)

// SessionStore holds authenticated contexts keyed by user id between the
// OAuth callback and subsequent API calls.
//
// The store is an explicit dependency injected into every handler that needs
// it, so tests can substitute a fake.
type SessionStore interface {
	Get(userID string) (*models.SessionEntry, bool)
	Set(userID string, entry *models.SessionEntry)
	Delete(userID string)
}

// MemorySessionStore is the in-process [SessionStore]. Entries are lost on
// restart; the credential record is the only durable state.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]*models.SessionEntry
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]*models.SessionEntry)}
}

// Get returns the session entry bound to userID, if any.
func (s *MemorySessionStore) Get(userID string) (*models.SessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[userID]
	return entry, ok
}

// Set binds an entry to userID. Concurrent callbacks for the same user id
// race benignly; last write wins.
func (s *MemorySessionStore) Set(userID string, entry *models.SessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = entry
}

// Delete removes the entry for userID. No-op when absent.
func (s *MemorySessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}
