package storage

import (
	"sync"

	"github.com/docuflow/docuflow/internal/models"
)

// MemoryStore keeps the credential in process memory
type MemoryStore struct {
	values map[string]string
	mu     sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (s *MemoryStore) Load() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sessionFromKeys(s.values)
}

func (s *MemoryStore) Save(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyToken] = session.Token
	s.values[KeyUsername] = session.Username
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, KeyToken)
	delete(s.values, KeyUsername)
	return nil
}
