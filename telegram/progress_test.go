// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressString(t *testing.T) {
	assert.Equal(t, "▏", progressString(0))
	assert.Equal(t, "▉", progressString(6))
	assert.Equal(t, "▉▏", progressString(7))
	assert.Equal(t, "▉▉▏", progressString(14))

	// one full block per completed cycle plus the partial
	runes := []rune(progressString(21))
	assert.Len(t, runes, 4)
}

func TestProgressBarRun(t *testing.T) {
	client, srv := newFakeClient(t)
	chat := srv.CreateChat("alice")
	e := &Event{Client: client, Update: &Update{Message: &Message{Chat: Chat{ID: chat.ID}}}}

	p := NewProgressBar()
	p.UpdateInterval = 50 * time.Millisecond
	err := p.Run(e, func() (string, error) {
		time.Sleep(120 * time.Millisecond)
		return "uploaded", nil
	})
	require.NoError(t, err)

	first, err := chat.Recv(time.Second)
	require.NoError(t, err)
	require.NotNil(t, first.Message)
	assert.Equal(t, "▏", first.Message.Text)

	// the final edit carries the done marker and the task's result
	var last *Update
	for {
		u, recvErr := chat.Recv(300 * time.Millisecond)
		if recvErr != nil {
			break
		}
		last = u
	}
	require.NotNil(t, last)
	require.NotNil(t, last.EditedMessage)
	assert.Contains(t, last.EditedMessage.Text, p.DoneStr)
	assert.Contains(t, last.EditedMessage.Text, "uploaded")
}

func TestProgressBarTimeout(t *testing.T) {
	client, srv := newFakeClient(t)
	chat := srv.CreateChat("alice")
	e := &Event{Client: client, Update: &Update{Message: &Message{Chat: Chat{ID: chat.ID}}}}

	p := NewProgressBar()
	p.Timeout = 100 * time.Millisecond
	p.UpdateInterval = 30 * time.Millisecond

	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })
	err := p.Run(e, func() (string, error) {
		<-blocked
		return "", nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish")

	var last *Update
	for {
		u, recvErr := chat.Recv(300 * time.Millisecond)
		if recvErr != nil {
			break
		}
		last = u
	}
	require.NotNil(t, last)
	require.NotNil(t, last.EditedMessage)
	assert.Contains(t, last.EditedMessage.Text, p.FailedStr)
}
