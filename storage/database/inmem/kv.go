package inmemdb

import (
	"context"
	"sync"

	"github.com/scitech-butterfly/aasira/core"
)

type keyValueStore struct {
	mutex sync.RWMutex
	table map[string][]byte
}

var _ core.KeyValueStore = (*keyValueStore)(nil)

func NewKeyValueStore() *keyValueStore {
	return &keyValueStore{table: make(map[string][]byte)}
}

func (s *keyValueStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (s *keyValueStore) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.table[key] = cp
	return nil
}

func (s *keyValueStore) Remove(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}
