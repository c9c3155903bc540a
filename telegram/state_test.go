// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStoreSeedsOnce(t *testing.T) {
	store := newStateStore[counterState](0)

	seeds := 0
	seed := func() counterState {
		seeds++
		return counterState{Count: 10}
	}

	first := store.getOrCreate(1, seed)
	second := store.getOrCreate(1, seed)
	assert.Same(t, first, second)
	assert.Equal(t, 1, seeds)
	assert.Equal(t, 10, first.Get().Count)

	store.getOrCreate(2, seed)
	assert.Equal(t, 2, seeds)
	assert.Equal(t, 2, store.len())
}

func TestStateStoreEviction(t *testing.T) {
	store := newStateStore[counterState](time.Minute)

	store.getOrCreate(1, func() counterState { return counterState{} })
	store.getOrCreate(2, func() counterState { return counterState{} })

	// nothing is stale yet
	assert.Equal(t, 0, store.evictStale(time.Now()))
	assert.Equal(t, 2, store.len())

	// everything is stale an hour from now
	assert.Equal(t, 2, store.evictStale(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, store.len())

	_, ok := store.get(1)
	assert.False(t, ok)
}

func TestStateStoreEvictionDisabled(t *testing.T) {
	store := newStateStore[counterState](0)
	store.getOrCreate(1, func() counterState { return counterState{} })
	assert.Equal(t, 0, store.evictStale(time.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, store.len())
}

func TestStateWithSerializesWriters(t *testing.T) {
	state := NewState(counterState{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.With(func(s *counterState) { s.Count++ })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, state.Get().Count)
}

type listState struct {
	Items []string
}

func (s listState) Clone() listState {
	return listState{Items: append([]string(nil), s.Items...)}
}

func TestCloneValueUsesCloner(t *testing.T) {
	proto := listState{Items: []string{"a"}}
	clone := cloneValue(proto)
	require.Equal(t, proto.Items, clone.Items)

	clone.Items[0] = "mutated"
	assert.Equal(t, "a", proto.Items[0])
}

func TestCloneValueCopiesPlainValues(t *testing.T) {
	clone := cloneValue(counterState{Count: 7})
	assert.Equal(t, 7, clone.Count)
}

func TestSessionsDoNotShareClonedState(t *testing.T) {
	client, srv := newFakeClient(t)

	d := NewDispatcher[listState](client).
		WithPollTimeout(time.Second).
		WithState(listState{Items: []string{"seed"}})
	d.AddRoute(OnMessage(MatchAny()), func(e *Event, state *State[listState]) (Action, error) {
		text, _ := e.Update.Text()
		var n int
		state.With(func(s *listState) {
			s.Items = append(s.Items, text)
			n = len(s.Items)
		})
		return ReplyText(strconv.Itoa(n)), nil
	})
	require.NoError(t, d.Start())
	t.Cleanup(d.Stop)

	alice := srv.CreateChat("alice")
	bob := srv.CreateChat("bob")

	require.NoError(t, alice.SendText("one"))
	expectReply(t, alice, "2")
	require.NoError(t, alice.SendText("two"))
	expectReply(t, alice, "3")

	// bob's session clones the prototype, untouched by alice's appends
	require.NoError(t, bob.SendText("one"))
	expectReply(t, bob, "2")
}
