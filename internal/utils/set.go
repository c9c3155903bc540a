package utils

import "sync"

type null = struct{}

// SyncSet is a mutex-guarded set of comparable values.
type SyncSet[T comparable] struct {
	mu sync.RWMutex
	m  map[T]null
}

func NewSyncSet[T comparable](values ...T) *SyncSet[T] {
	s := &SyncSet[T]{m: make(map[T]null, len(values))}
	for _, v := range values {
		s.m[v] = null{}
	}
	return s
}

func (s *SyncSet[T]) Add(key T) bool {
	s.mu.Lock()
	prevLen := len(s.m)
	s.m[key] = null{}
	cLen := len(s.m)
	s.mu.Unlock()
	return prevLen != cLen
}

func (s *SyncSet[T]) Has(key T) bool {
	s.mu.RLock()
	_, ok := s.m[key]
	s.mu.RUnlock()
	return ok
}

func (s *SyncSet[T]) Delete(key T) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

func (s *SyncSet[T]) Len() int {
	s.mu.RLock()
	c := len(s.m)
	s.mu.RUnlock()
	return c
}

func (s *SyncSet[T]) Keys() []T {
	s.mu.RLock()
	keys := make([]T, 0, len(s.m))
	for key := range s.m {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	return keys
}
