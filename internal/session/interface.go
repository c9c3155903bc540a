// Copyright (c) 2024, amarnathcjd

// Package session persists the dispatcher's poll position so a restarted
// bot resumes from the last acknowledged update instead of re-reading the
// remote queue tail.
package session

// Session is the state worth keeping between runs.
type Session struct {
	// Highest update id acknowledged to the server.
	Offset int64 `json:"offset"`
	// Bot id the offset belongs to, to catch token swaps.
	BotID int64 `json:"bot_id,omitempty"`
}

type Loader interface {
	// Path of the underlying storage, for log messages.
	Path() string
	Load() (*Session, error)
	Store(*Session) error
	Delete() error
}
