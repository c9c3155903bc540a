// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// GetUpdatesRequest is the long-poll fetch request. The dispatcher always
// asks for offset = last seen update id + 1.
type GetUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

type SendMessageRequest struct {
	ChatID                int64                 `json:"chat_id"`
	Text                  string                `json:"text"`
	ParseMode             string                `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyToMessageID      int64                 `json:"reply_to_message_id,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type EditMessageTextRequest struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode,omitempty"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type EditMessageReplyMarkupRequest struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type DeleteMessageRequest struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

type SendStickerRequest struct {
	ChatID           int64  `json:"chat_id"`
	Sticker          string `json:"sticker"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
}

type AnswerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

type AnswerInlineQueryRequest struct {
	InlineQueryID string              `json:"inline_query_id"`
	Results       []InlineQueryResult `json:"results"`
	CacheTime     int                 `json:"cache_time,omitempty"`
	IsPersonal    bool                `json:"is_personal,omitempty"`
	NextOffset    string              `json:"next_offset,omitempty"`
}

// InlineQueryResult is an article result; the only kind the framework
// builds itself.
type InlineQueryResult struct {
	Type                string              `json:"type"`
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	InputMessageContent InputMessageContent `json:"input_message_content"`
}

type InputMessageContent struct {
	MessageText string `json:"message_text"`
	ParseMode   string `json:"parse_mode,omitempty"`
}

// Article builds an inline-query article result.
func Article(id, title, text string) InlineQueryResult {
	return InlineQueryResult{
		Type:                "article",
		ID:                  id,
		Title:               title,
		InputMessageContent: InputMessageContent{MessageText: text},
	}
}

type GetFileRequest struct {
	FileID string `json:"file_id"`
}

type SendChatActionRequest struct {
	ChatID int64      `json:"chat_id"`
	Action ChatAction `json:"action"`
}

type SetMyCommandsRequest struct {
	Commands []BotCommand `json:"commands"`
}

// invoke posts one method call and decodes the result into out (skipped
// when out is nil).
func (c *Client) invoke(ctx context.Context, method string, payload, out any) error {
	raw, err := c.raw.Post(ctx, method, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decoding %s result", method)
	}
	return nil
}

// GetMe returns basic information about the bot.
func (c *Client) GetMe() (*User, error) {
	var me User
	if err := c.invoke(context.Background(), "getMe", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates fetches pending updates with long-poll semantics. The context
// bounds the call; the dispatcher cancels it on shutdown.
func (c *Client) GetUpdates(ctx context.Context, req *GetUpdatesRequest) ([]*Update, error) {
	var updates []*Update
	if err := c.invoke(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text message.
func (c *Client) SendMessage(req *SendMessageRequest) (*Message, error) {
	var msg Message
	if err := c.invoke(context.Background(), "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageText edits the text of a previously sent message.
func (c *Client) EditMessageText(req *EditMessageTextRequest) (*Message, error) {
	var msg Message
	if err := c.invoke(context.Background(), "editMessageText", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageReplyMarkup replaces a message's inline keyboard.
func (c *Client) EditMessageReplyMarkup(req *EditMessageReplyMarkupRequest) (*Message, error) {
	var msg Message
	if err := c.invoke(context.Background(), "editMessageReplyMarkup", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(req *DeleteMessageRequest) error {
	return c.invoke(context.Background(), "deleteMessage", req, nil)
}

// SendSticker sends a sticker by file id.
func (c *Client) SendSticker(req *SendStickerRequest) (*Message, error) {
	var msg Message
	if err := c.invoke(context.Background(), "sendSticker", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AnswerCallbackQuery acknowledges a callback query.
func (c *Client) AnswerCallbackQuery(req *AnswerCallbackQueryRequest) error {
	return c.invoke(context.Background(), "answerCallbackQuery", req, nil)
}

// AnswerInlineQuery answers an inline query with article results.
func (c *Client) AnswerInlineQuery(req *AnswerInlineQueryRequest) error {
	return c.invoke(context.Background(), "answerInlineQuery", req, nil)
}

// GetFile resolves a file id into a downloadable file path.
func (c *Client) GetFile(fileID string) (*File, error) {
	var file File
	if err := c.invoke(context.Background(), "getFile", &GetFileRequest{FileID: fileID}, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// FileURL builds the download URL for a resolved file.
func (c *Client) FileURL(file *File) string {
	host := c.config.APIHost
	if host == "" {
		host = "https://api.telegram.org"
	}
	return host + "/file/bot" + c.config.Token + "/" + file.FilePath
}

// SendChatAction shows a chat action (typing, uploading, ...) in the chat.
func (c *Client) SendChatAction(chatID int64, action ChatAction) error {
	return c.invoke(context.Background(), "sendChatAction", &SendChatActionRequest{ChatID: chatID, Action: action}, nil)
}

// SetMyCommands sets the bot's command list shown by clients.
func (c *Client) SetMyCommands(commands ...BotCommand) error {
	return c.invoke(context.Background(), "setMyCommands", &SetMyCommandsRequest{Commands: commands}, nil)
}
