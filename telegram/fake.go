// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	botgram "github.com/amarnathcjd/botgram"
	"github.com/pkg/errors"

	"github.com/amarnathcjd/botgram/internal/utils"
)

const fakeQueueSize = 100

// FakeServer is an in-memory stand-in for the Bot API transport. It serves
// the poll loop's getUpdates from an inbound queue and converts outbound
// sends into synthetic bot-authored updates pushed back to the originating
// chat's probe, so request/response round-trips are deterministic and
// network-free.
type FakeServer struct {
	botName string
	log     *utils.Logger

	updateID  atomic.Int64
	chatID    atomic.Int64
	messageID atomic.Int64
	queryID   atomic.Int64

	inbox chan *Update

	mu    sync.Mutex
	chats map[int64]chan *Update
}

var _ botgram.Requester = (*FakeServer)(nil)

// NewFakeServer returns a fake backend. Wire it into a client through
// ClientConfig.Requester.
func NewFakeServer() *FakeServer {
	s := &FakeServer{
		botName: "botgram_bot",
		log:     utils.NewLogger("botgram [fake]"),
		inbox:   make(chan *Update, fakeQueueSize),
		chats:   make(map[int64]chan *Update),
	}
	s.chatID.Store(1000)
	return s
}

// FakeChat is a test probe: one synthetic chat with a send side injecting
// user events into the engine and a receive side observing what the engine
// sent back.
type FakeChat struct {
	ID   int64
	Name string

	srv  *FakeServer
	recv chan *Update
}

// CreateChat registers a new synthetic chat for the given display name.
func (s *FakeServer) CreateChat(name string) *FakeChat {
	chat := &FakeChat{
		ID:   s.chatID.Add(1),
		Name: name,
		srv:  s,
		recv: make(chan *Update, fakeQueueSize),
	}
	s.mu.Lock()
	s.chats[chat.ID] = chat.recv
	s.mu.Unlock()
	return chat
}

func (c *FakeChat) chatInfo() Chat {
	return Chat{ID: c.ID, Type: "private", Username: c.Name, FirstName: c.Name}
}

func (c *FakeChat) userInfo() *User {
	return &User{ID: c.ID, FirstName: c.Name, Username: c.Name}
}

func (c *FakeChat) push(u *Update) error {
	select {
	case c.srv.inbox <- u:
		return nil
	default:
		return errors.New("fake server inbox is full")
	}
}

// SendText injects a new text message from the chat's user.
func (c *FakeChat) SendText(text string) error {
	return c.push(&Update{Message: &Message{
		MessageID: c.srv.messageID.Add(1),
		From:      c.userInfo(),
		Date:      time.Now().Unix(),
		Chat:      c.chatInfo(),
		Text:      text,
	}})
}

// EditText injects an edit of a previously sent user message.
func (c *FakeChat) EditText(messageID int64, text string) error {
	return c.push(&Update{EditedMessage: &Message{
		MessageID: messageID,
		From:      c.userInfo(),
		Date:      time.Now().Unix(),
		EditDate:  time.Now().Unix(),
		Chat:      c.chatInfo(),
		Text:      text,
	}})
}

// SendCallback injects a callback query carrying data, attached to a
// message in this chat.
func (c *FakeChat) SendCallback(data string) error {
	return c.push(&Update{CallbackQuery: &CallbackQuery{
		ID:   fmt.Sprintf("cbq%d", c.srv.queryID.Add(1)),
		From: *c.userInfo(),
		Message: &Message{
			MessageID: c.srv.messageID.Add(1),
			Date:      time.Now().Unix(),
			Chat:      c.chatInfo(),
		},
		Data: data,
	}})
}

// SendPhoto injects a photo message.
func (c *FakeChat) SendPhoto(fileID string) error {
	return c.push(&Update{Message: &Message{
		MessageID: c.srv.messageID.Add(1),
		From:      c.userInfo(),
		Date:      time.Now().Unix(),
		Chat:      c.chatInfo(),
		Photo:     []PhotoSize{{FileID: fileID, FileUniqueID: fileID, Width: 90, Height: 90}},
	}})
}

// SendDocument injects a document message.
func (c *FakeChat) SendDocument(fileName string) error {
	return c.push(&Update{Message: &Message{
		MessageID: c.srv.messageID.Add(1),
		From:      c.userInfo(),
		Date:      time.Now().Unix(),
		Chat:      c.chatInfo(),
		Document:  &Document{FileID: fileName, FileUniqueID: fileName, FileName: fileName},
	}})
}

// Recv waits for the next update the engine sent into this chat. The
// optional timeout defaults to 5 seconds.
func (c *FakeChat) Recv(timeout ...time.Duration) (*Update, error) {
	wait := 5 * time.Second
	if len(timeout) > 0 {
		wait = timeout[0]
	}
	select {
	case u := <-c.recv:
		return u, nil
	case <-time.After(wait):
		return nil, errors.Errorf("no update within %s", wait)
	}
}

// Post implements botgram.Requester entirely in memory.
func (s *FakeServer) Post(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s request", method)
	}
	s.log.Trace("POST /%s %s", method, body)

	switch method {
	case "getMe":
		return marshalResult(method, s.botUser())

	case "getUpdates":
		var req GetUpdatesRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, errors.Wrap(err, "decoding getUpdates request")
		}
		return marshalResult(method, s.getUpdates(ctx, &req))

	case "sendMessage":
		var req SendMessageRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, errors.Wrap(err, "decoding sendMessage request")
		}
		msg := s.botMessage(req.ChatID)
		msg.Text = req.Text
		msg.ReplyMarkup = req.ReplyMarkup
		s.deliver(req.ChatID, &Update{Message: msg})
		return marshalResult(method, msg)

	case "editMessageText":
		var req EditMessageTextRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, errors.Wrap(err, "decoding editMessageText request")
		}
		msg := s.botMessage(req.ChatID)
		msg.MessageID = req.MessageID
		msg.Text = req.Text
		msg.EditDate = time.Now().Unix()
		s.deliver(req.ChatID, &Update{EditedMessage: msg})
		return marshalResult(method, msg)

	case "sendSticker":
		var req SendStickerRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, errors.Wrap(err, "decoding sendSticker request")
		}
		msg := s.botMessage(req.ChatID)
		msg.Sticker = &Sticker{FileID: req.Sticker, FileUniqueID: req.Sticker}
		s.deliver(req.ChatID, &Update{Message: msg})
		return marshalResult(method, msg)

	case "answerCallbackQuery", "answerInlineQuery", "deleteMessage",
		"sendChatAction", "setMyCommands":
		return marshalResult(method, true)

	default:
		s.log.Warn("unknown method: %s", method)
		return botgram.DecodeResponse(method, botgram.EncodeError(404, "Unknown method: "+method))
	}
}

func (s *FakeServer) botUser() *User {
	h := fnv.New64a()
	h.Write([]byte(s.botName))
	return &User{
		ID:        int64(h.Sum64() & 0x7fffffff),
		IsBot:     true,
		FirstName: s.botName,
		Username:  s.botName,
	}
}

func (s *FakeServer) botMessage(chatID int64) *Message {
	return &Message{
		MessageID: s.messageID.Add(1),
		From:      s.botUser(),
		Date:      time.Now().Unix(),
		Chat:      Chat{ID: chatID, Type: "private", Username: s.botName, FirstName: s.botName},
	}
}

// getUpdates blocks on the inbound queue with the request's long-poll
// timeout, like the real server does.
func (s *FakeServer) getUpdates(ctx context.Context, req *GetUpdatesRequest) []*Update {
	timeout := time.Duration(req.Timeout) * time.Second
	if timeout <= 0 {
		timeout = time.Second
	}

	select {
	case u := <-s.inbox:
		u.UpdateID = s.updateID.Add(1)
		return []*Update{u}
	case <-time.After(timeout):
		return []*Update{}
	case <-ctx.Done():
		return []*Update{}
	}
}

// deliver pushes an engine-originated update onto the chat's probe queue.
func (s *FakeServer) deliver(chatID int64, u *Update) {
	s.mu.Lock()
	queue, ok := s.chats[chatID]
	s.mu.Unlock()
	if !ok {
		s.log.Warn("can't find chat with id = %d", chatID)
		return
	}
	u.UpdateID = s.updateID.Add(1)
	select {
	case queue <- u:
	default:
		s.log.Warn("probe queue full for chat %d, dropping update", chatID)
	}
}

// marshalResult wraps v in the response envelope and unwraps it again, so
// fake calls travel through the same codec as real HTTP responses.
func marshalResult(method string, v any) (json.RawMessage, error) {
	env, err := botgram.EncodeResponse(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s result", method)
	}
	return botgram.DecodeResponse(method, env)
}
