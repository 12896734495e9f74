package state

import (
	"context"
	"sync"
)

// MemoryStore is a minimal in-memory Store implementation intended for tests
// and examples. Values are kept as written; Read applies the same coercion as
// the file-backed store so both behave alike.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]any
	version *int
	failing map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]any{}}
}

// Seed stores raw values without coercion, letting tests model legacy or
// corrupted settings.
func (s *MemoryStore) Seed(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.records[key] = value
	}
}

// FailWrites makes subsequent writes to key return err. A nil err clears the
// failure. Use VersionKey to make version writes fail.
func (s *MemoryStore) FailWrites(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing == nil {
		s.failing = map[string]error{}
	}
	if err == nil {
		delete(s.failing, key)
		return
	}
	s.failing[key] = err
}

// Raw returns the uncoerced value stored under key.
func (s *MemoryStore) Raw(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	return value, ok
}

// Len returns the number of stored settings, excluding the version marker.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Has(_ context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[key]
	return ok
}

func (s *MemoryStore) Read(_ context.Context, key string, kind Kind) (any, bool) {
	s.mu.RLock()
	raw, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return Coerce(kind, raw)
}

func (s *MemoryStore) Write(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing[key]; err != nil {
		return err
	}
	s.records[key] = value
	return nil
}

func (s *MemoryStore) ReadVersion(_ context.Context) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.version == nil {
		return 0, false
	}
	return *s.version, true
}

func (s *MemoryStore) WriteVersion(_ context.Context, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing[VersionKey]; err != nil {
		return err
	}
	s.version = &version
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = map[string]any{}
	s.version = nil
	return nil
}
