// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"github.com/pkg/errors"

	"github.com/amarnathcjd/botgram/internal/utils"
)

// LogHandler logs every event it sees and falls through. Register it first
// on a catch-all route to trace traffic.
func LogHandler[S any](e *Event, _ *State[S]) (Action, error) {
	switch {
	case e.Update.CallbackQuery != nil:
		chatID, _ := e.Update.ChatID()
		e.Client.Log.Info("(%d) callback from %s: %s",
			chatID, e.Update.CallbackQuery.From.FirstName, e.Update.CallbackQuery.Data)
	case e.Update.InlineQuery != nil:
		e.Client.Log.Info("(%d) inline query from %s: %s",
			e.Update.InlineQuery.From.ID, e.Update.InlineQuery.From.FirstName, e.Update.InlineQuery.Query)
	default:
		m := e.Update.msg()
		if m == nil {
			return Next, errors.New("unknown message type")
		}
		from := ""
		if m.From != nil {
			from = m.From.FirstName
		}
		e.Client.Log.Info("(%d) message from %s: %s", m.Chat.ID, from, m.Text)
	}
	return Next, nil
}

// AuthHandler returns a handler that rejects events from users outside the
// allowlist (by username). Rejections surface through the error policy.
func AuthHandler[S any](usernames ...string) Handler[S] {
	allowed := utils.NewSyncSet(usernames...)
	return func(e *Event, _ *State[S]) (Action, error) {
		from, err := e.Update.From()
		if err != nil {
			return Next, err
		}
		if from.Username == "" || !allowed.Has(from.Username) {
			name := from.Username
			if name == "" {
				name = "__unknown__"
			}
			return Next, errors.Errorf("unauthorized user: %s", name)
		}
		return Next, nil
	}
}

// DoneHandler stops the chain unconditionally. Useful as a chain
// terminator after middleware-style handlers.
func DoneHandler[S any](_ *Event, _ *State[S]) (Action, error) {
	return Done, nil
}
