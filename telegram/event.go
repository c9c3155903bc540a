// Copyright (c) 2024, amarnathcjd

package telegram

import "github.com/pkg/errors"

// Event is what a handler receives: the update plus the client to act on
// it. The helpers below cover the calls bots make from inside handlers;
// anything else goes through e.Client directly.
type Event struct {
	Client *Client
	Update *Update
}

// SendText sends a plain-text message into the event's chat.
func (e *Event) SendText(text string) (*Message, error) {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return nil, err
	}
	return e.Client.SendMessage(&SendMessageRequest{ChatID: chatID, Text: text})
}

// SendMarkdown sends a MarkdownV2 message into the event's chat.
func (e *Event) SendMarkdown(text string) (*Message, error) {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return nil, err
	}
	return e.Client.SendMessage(&SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeMarkdownV2,
	})
}

// Reply sends a text message replying to the event's message.
func (e *Event) Reply(text string) (*Message, error) {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return nil, err
	}
	msgID, err := e.Update.MessageID()
	if err != nil {
		return nil, err
	}
	return e.Client.SendMessage(&SendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ReplyToMessageID: msgID,
	})
}

// EditMessage replaces the text of a message in the event's chat.
func (e *Event) EditMessage(messageID int64, text string) (*Message, error) {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return nil, err
	}
	return e.Client.EditMessageText(&EditMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
}

// EditLastMessage replaces the text of the event's own message.
func (e *Event) EditLastMessage(text string) (*Message, error) {
	msgID, err := e.Update.MessageID()
	if err != nil {
		return nil, err
	}
	return e.EditMessage(msgID, text)
}

// DeleteMessage deletes a message in the event's chat.
func (e *Event) DeleteMessage(messageID int64) error {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return err
	}
	return e.Client.DeleteMessage(&DeleteMessageRequest{ChatID: chatID, MessageID: messageID})
}

// DeleteLastMessage deletes the event's own message.
func (e *Event) DeleteLastMessage() error {
	msgID, err := e.Update.MessageID()
	if err != nil {
		return err
	}
	return e.DeleteMessage(msgID)
}

// AnswerCallback acknowledges the event's callback query, optionally with
// a toast text.
func (e *Event) AnswerCallback(text string) error {
	queryID, err := e.Update.QueryID()
	if err != nil {
		return err
	}
	return e.Client.AnswerCallbackQuery(&AnswerCallbackQueryRequest{
		CallbackQueryID: queryID,
		Text:            text,
	})
}

// RemoveInlineKeyboard strips the inline keyboard from the message the
// event's callback query is attached to.
func (e *Event) RemoveInlineKeyboard() (*Message, error) {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return nil, err
	}
	msgID, err := e.Update.MessageID()
	if err != nil {
		return nil, err
	}
	return e.Client.EditMessageReplyMarkup(&EditMessageReplyMarkupRequest{
		ChatID:      chatID,
		MessageID:   msgID,
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}},
	})
}

// AnswerInline answers the event's inline query with article results.
func (e *Event) AnswerInline(results ...InlineQueryResult) error {
	if e.Update.InlineQuery == nil {
		return errors.New("update is not an inline query")
	}
	return e.Client.AnswerInlineQuery(&AnswerInlineQueryRequest{
		InlineQueryID: e.Update.InlineQuery.ID,
		Results:       results,
	})
}

// SendChatAction shows a chat action in the event's chat.
func (e *Event) SendChatAction(action ChatAction) error {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return err
	}
	return e.Client.SendChatAction(chatID, action)
}

// SendSticker sends a sticker into the event's chat.
func (e *Event) SendSticker(fileID string) (*Message, error) {
	chatID, err := e.Update.ChatID()
	if err != nil {
		return nil, err
	}
	return e.Client.SendSticker(&SendStickerRequest{ChatID: chatID, Sticker: fileID})
}
