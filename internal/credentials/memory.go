package credentials

import (
	"strings"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and tooling.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get() (string, bool) {
	return s.read(KeyToken)
}

func (s *MemoryStore) Save(token string) {
	s.write(KeyToken, Normalize(token))
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, KeyToken)
	delete(s.values, KeyUserID)
}

func (s *MemoryStore) UserID() (string, bool) {
	return s.read(KeyUserID)
}

func (s *MemoryStore) SaveUserID(id string) {
	s.write(KeyUserID, strings.TrimSpace(id))
}

func (s *MemoryStore) LayoutExpanded() bool {
	val, ok := s.read(KeyLayoutExpanded)
	return ok && val == "true"
}

func (s *MemoryStore) SaveLayoutExpanded(expanded bool) {
	if expanded {
		s.write(KeyLayoutExpanded, "true")
		return
	}
	s.write(KeyLayoutExpanded, "false")
}

func (s *MemoryStore) read(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (s *MemoryStore) write(key, val string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if val == "" {
		delete(s.values, key)
		return
	}
	s.values[key] = val
}
