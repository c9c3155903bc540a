// Copyright (c) 2024, amarnathcjd

package telegram

import "github.com/pkg/errors"

// msg returns the message payload of the update, whichever field holds it.
// For callback queries this is the message the keyboard was attached to.
func (u *Update) msg() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.ChannelPost != nil:
		return u.ChannelPost
	case u.EditedChannelPost != nil:
		return u.EditedChannelPost
	case u.CallbackQuery != nil:
		return u.CallbackQuery.Message
	default:
		return nil
	}
}

// ChatID returns the chat the update belongs to.
func (u *Update) ChatID() (int64, error) {
	if m := u.msg(); m != nil {
		return m.Chat.ID, nil
	}
	return 0, errors.New("update has no chat")
}

// MessageID returns the id of the update's message payload.
func (u *Update) MessageID() (int64, error) {
	if m := u.msg(); m != nil {
		return m.MessageID, nil
	}
	return 0, errors.New("update has no message")
}

// Text returns the text of the update's message payload.
func (u *Update) Text() (string, error) {
	m := u.msg()
	if m == nil {
		return "", errors.New("update has no message")
	}
	if m.Text == "" {
		return "", errors.New("message has no text")
	}
	return m.Text, nil
}

// Data returns the payload of a callback query.
func (u *Update) Data() (string, error) {
	if u.CallbackQuery == nil {
		return "", errors.New("update is not a callback query")
	}
	return u.CallbackQuery.Data, nil
}

// QueryID returns the id of a callback query.
func (u *Update) QueryID() (string, error) {
	if u.CallbackQuery == nil {
		return "", errors.New("update is not a callback query")
	}
	return u.CallbackQuery.ID, nil
}

// Query returns the text of an inline query.
func (u *Update) Query() (string, error) {
	if u.InlineQuery == nil {
		return "", errors.New("update is not an inline query")
	}
	return u.InlineQuery.Query, nil
}

// From returns the user that produced the update.
func (u *Update) From() (*User, error) {
	switch {
	case u.CallbackQuery != nil:
		return &u.CallbackQuery.From, nil
	case u.InlineQuery != nil:
		return &u.InlineQuery.From, nil
	}
	if m := u.msg(); m != nil && m.From != nil {
		return m.From, nil
	}
	return nil, errors.New("update has no sender")
}

// Photo returns the photo sizes of the update's message payload.
func (u *Update) Photo() ([]PhotoSize, error) {
	if m := u.msg(); m != nil && len(m.Photo) > 0 {
		return m.Photo, nil
	}
	return nil, errors.New("message has no photo")
}

// GetDocument returns the document of the update's message payload.
func (u *Update) GetDocument() (*Document, error) {
	if m := u.msg(); m != nil && m.Document != nil {
		return m.Document, nil
	}
	return nil, errors.New("message has no document")
}
