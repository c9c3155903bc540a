// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textUpdate(text string) *Update {
	return &Update{Message: &Message{
		MessageID: 1,
		Chat:      Chat{ID: 42, Type: "private"},
		Text:      text,
	}}
}

func TestMatchExact(t *testing.T) {
	r := OnMessage(MatchExact("boo"))
	assert.True(t, r.matchUpdate(textUpdate("boo")))
	assert.False(t, r.matchUpdate(textUpdate("boop")))
	assert.False(t, r.matchUpdate(textUpdate("Boo")))
	assert.False(t, r.matchUpdate(textUpdate("")))
}

func TestMatchPrefix(t *testing.T) {
	r := OnMessage(MatchPrefix("/foo"))
	assert.True(t, r.matchUpdate(textUpdate("/foo")))
	assert.True(t, r.matchUpdate(textUpdate("/foobar")))
	assert.False(t, r.matchUpdate(textUpdate("bar/foo")))
}

func TestMatchRegex(t *testing.T) {
	r := OnMessage(MatchRegex("[Pp]ing"))
	assert.True(t, r.matchUpdate(textUpdate("ping")))
	assert.True(t, r.matchUpdate(textUpdate("send a Ping please")))
	assert.False(t, r.matchUpdate(textUpdate("pong")))
}

func TestMatchRegexInvalidPanics(t *testing.T) {
	assert.Panics(t, func() { MatchRegex("[unclosed") })
}

func TestMatchCommand(t *testing.T) {
	r := OnMessage(MatchCommand("start"))
	assert.True(t, r.matchUpdate(textUpdate("/start")))
	assert.True(t, r.matchUpdate(textUpdate("/start now")))
	assert.False(t, r.matchUpdate(textUpdate("start")))
	assert.False(t, r.matchUpdate(textUpdate("/stop")))
}

func TestMatchContentKinds(t *testing.T) {
	photo := &Update{Message: &Message{
		Chat:  Chat{ID: 1},
		Photo: []PhotoSize{{FileID: "p1"}},
	}}
	doc := &Update{Message: &Message{
		Chat:     Chat{ID: 1},
		Document: &Document{FileID: "d1", FileName: "report.pdf"},
	}}

	assert.True(t, OnMessage(MatchPhoto()).matchUpdate(photo))
	assert.False(t, OnMessage(MatchPhoto()).matchUpdate(doc))
	assert.True(t, OnMessage(MatchDocument()).matchUpdate(doc))
	assert.False(t, OnMessage(MatchDocument()).matchUpdate(textUpdate("hi")))
}

func TestMatchIgnoresMessagesWithoutText(t *testing.T) {
	noText := &Update{Message: &Message{Chat: Chat{ID: 1}}}
	assert.False(t, OnMessage(MatchAny()).matchUpdate(noText))
	assert.False(t, OnMessage(MatchPrefix("")).matchUpdate(noText))
}

func TestMatchFamilies(t *testing.T) {
	edited := &Update{EditedMessage: &Message{Chat: Chat{ID: 1}, Text: "fixed typo"}}
	callback := &Update{CallbackQuery: &CallbackQuery{
		ID:      "cbq1",
		From:    User{ID: 7},
		Message: &Message{Chat: Chat{ID: 1}},
		Data:    "vote:yes",
	}}
	inline := &Update{InlineQuery: &InlineQuery{ID: "iq1", From: User{ID: 7}, Query: "cats"}}

	assert.True(t, OnEditedMessage(MatchPrefix("fixed")).matchUpdate(edited))
	assert.False(t, OnMessage(MatchPrefix("fixed")).matchUpdate(edited))

	assert.True(t, OnCallback(MatchPrefix("vote:")).matchUpdate(callback))
	assert.False(t, OnCallback(MatchExact("vote:no")).matchUpdate(callback))

	assert.True(t, OnInline(MatchAny()).matchUpdate(inline))
	assert.True(t, OnInline(MatchExact("cats")).matchUpdate(inline))
}

func TestMatchAnyFamilyScansAllPayloads(t *testing.T) {
	callback := &Update{CallbackQuery: &CallbackQuery{
		ID:      "cbq1",
		From:    User{ID: 7},
		Message: &Message{Chat: Chat{ID: 1}},
		Data:    "vote:yes",
	}}
	assert.True(t, OnAny(MatchPrefix("vote:")).matchUpdate(callback))
	assert.False(t, OnAny(MatchPrefix("page:")).matchUpdate(callback))
	assert.True(t, Default().matchUpdate(textUpdate("anything")))
}

func TestClassifyUpdate(t *testing.T) {
	cases := []struct {
		name string
		u    *Update
		key  int64
		kind RouteKind
	}{
		{"message", &Update{Message: &Message{Chat: Chat{ID: 11}, Text: "hi"}}, 11, RouteNewMessage},
		{"edited", &Update{EditedMessage: &Message{Chat: Chat{ID: 12}, Text: "hi"}}, 12, RouteEditedMessage},
		{"channel post", &Update{ChannelPost: &Message{Chat: Chat{ID: 13}, Text: "hi"}}, 13, RouteChannelPost},
		{"edited channel post", &Update{EditedChannelPost: &Message{Chat: Chat{ID: 14}, Text: "hi"}}, 14, RouteEditedChannelPost},
		{"callback with message", &Update{CallbackQuery: &CallbackQuery{
			Message: &Message{Chat: Chat{ID: 15}},
		}}, 15, RouteCallbackQuery},
		{"callback without message", &Update{CallbackQuery: &CallbackQuery{}}, 0, RouteCallbackQuery},
		{"inline query", &Update{InlineQuery: &InlineQuery{From: User{ID: 77}}}, 77, RouteInlineQuery},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, kind, err := classifyUpdate(tc.u)
			require.NoError(t, err)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.kind, kind)
		})
	}
}

func TestClassifyUnrecognizedUpdate(t *testing.T) {
	_, _, err := classifyUpdate(&Update{UpdateID: 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized update")
}

func TestRouteKindString(t *testing.T) {
	assert.Equal(t, "message", RouteNewMessage.String())
	assert.Equal(t, "callback_query", RouteCallbackQuery.String())
	assert.Equal(t, "any", RouteAny.String())
	assert.Equal(t, "unknown", RouteKind(99).String())
}
