package jsondict

import (
	"errors"
	"slices"
	"sync"
)

var errStoreClosed = errors.New("store closed")

// MemStore is a transient in-memory Store, mostly intended for tests.
type MemStore struct {
	mu     sync.Mutex
	items  map[string][]byte
	closed bool
	loads  int
	saves  int
}

func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string][]byte)}
}

func (s *MemStore) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, errStoreClosed
	}
	s.loads++
	data, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(data), true, nil
}

func (s *MemStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	s.saves++
	s.items[key] = slices.Clone(data)
	return nil
}

// Delete removes the record, as if it was never written.
func (s *MemStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Loads and Saves count the calls served so far.
func (s *MemStore) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func (s *MemStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	return nil
}
