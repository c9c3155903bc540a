// Copyright (c) 2024, amarnathcjd

package telegram

import "sync"

type actionKind int

const (
	actionNext actionKind = iota
	actionDone
	actionReplyText
	actionReplyMarkdown
	actionReplySticker
)

// Action is a handler's instruction to the dispatcher: continue the chain,
// stop it, or reply into the chat and stop.
type Action struct {
	kind    actionKind
	payload string
}

var (
	// Next falls through to the next handler in the chain.
	Next = Action{kind: actionNext}
	// Done stops the chain without any outbound call.
	Done = Action{kind: actionDone}
)

// ReplyText stops the chain and sends a plain-text message into the chat.
func ReplyText(text string) Action {
	return Action{kind: actionReplyText, payload: text}
}

// ReplyMarkdown stops the chain and sends a MarkdownV2 message into the
// chat. Escape user input with EscapeMarkdown.
func ReplyMarkdown(text string) Action {
	return Action{kind: actionReplyMarkdown, payload: text}
}

// ReplySticker stops the chain and sends the sticker with the given file id.
func ReplySticker(fileID string) Action {
	return Action{kind: actionReplySticker, payload: fileID}
}

// Handler processes one event against the session's state cell. Handlers
// are registered once before Start and shared by all in-flight dispatches;
// per-session mutual exclusion comes from the cell's own lock.
type Handler[S any] func(e *Event, state *State[S]) (Action, error)

// State is the lockable container holding one session's application state.
// The dispatcher never holds the lock itself; handlers take it for exactly
// the accesses they perform.
type State[S any] struct {
	mu    sync.RWMutex
	value S
}

func NewState[S any](value S) *State[S] {
	return &State[S]{value: value}
}

// Get returns a copy of the current value.
func (s *State[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the current value.
func (s *State[S]) Set(value S) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// With runs fn with the write lock held. Concurrent dispatches for the same
// session serialize here.
func (s *State[S]) With(fn func(*S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.value)
}

// Read runs fn with the read lock held.
func (s *State[S]) Read(fn func(S)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.value)
}

// Cloner lets a state type control how its initial value is copied into a
// fresh session cell. Value types without reference fields need nothing;
// everything else should implement it.
type Cloner[S any] interface {
	Clone() S
}

func cloneValue[S any](v S) S {
	if c, ok := any(v).(Cloner[S]); ok {
		return c.Clone()
	}
	return v
}

type handlerEntry[S any] struct {
	matcher    Matcher
	fn         Handler[S]
	initial    S
	hasInitial bool
}
