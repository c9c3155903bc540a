// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"sync"
	"time"
)

// stateStore owns the session-key → state-cell map. The store's mutex
// guards only lookup and insert-if-absent; mutation of the stored values
// goes through each cell's own lock.
type stateStore[S any] struct {
	mu    sync.Mutex
	cells map[int64]*stateCell[S]
	// Sessions idle longer than ttl are evicted by the janitor. Zero
	// disables eviction and keeps every session for the process lifetime.
	ttl time.Duration
}

type stateCell[S any] struct {
	state      *State[S]
	lastAccess time.Time
}

func newStateStore[S any](ttl time.Duration) *stateStore[S] {
	return &stateStore[S]{
		cells: make(map[int64]*stateCell[S]),
		ttl:   ttl,
	}
}

// getOrCreate returns the cell for key, creating it from seed on first use.
// seed is only invoked when the cell does not exist yet.
func (st *stateStore[S]) getOrCreate(key int64, seed func() S) *State[S] {
	st.mu.Lock()
	defer st.mu.Unlock()

	cell, ok := st.cells[key]
	if !ok {
		cell = &stateCell[S]{state: NewState(seed())}
		st.cells[key] = cell
	}
	cell.lastAccess = time.Now()
	return cell.state
}

func (st *stateStore[S]) get(key int64) (*State[S], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	cell, ok := st.cells[key]
	if !ok {
		return nil, false
	}
	return cell.state, true
}

func (st *stateStore[S]) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.cells)
}

// evictStale drops sessions idle longer than the ttl and reports how many
// were removed. No-op when eviction is disabled.
func (st *stateStore[S]) evictStale(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	cutoff := now.Add(-st.ttl)
	for key, cell := range st.cells {
		if cell.lastAccess.Before(cutoff) {
			delete(st.cells, key)
			evicted++
		}
	}
	return evicted
}
