// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Horizontal block characters of increasing width.
var progressBlocks = []rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// ProgressBar renders a growing unicode bar inside a message while a long
// task runs, editing the message on every tick. When the task finishes the
// bar is suffixed with DoneStr, on error or timeout with FailedStr.
type ProgressBar struct {
	// Give up waiting for the task after this long, default: 60s
	Timeout time.Duration
	// Edit interval, default: 500ms
	UpdateInterval time.Duration
	DoneStr        string
	FailedStr      string
}

func NewProgressBar() *ProgressBar {
	return &ProgressBar{
		Timeout:        60 * time.Second,
		UpdateInterval: 500 * time.Millisecond,
		DoneStr:        "✔",
		FailedStr:      "✘",
	}
}

func progressString(i int) string {
	full := i / len(progressBlocks)
	bar := strings.Repeat(string(progressBlocks[len(progressBlocks)-1]), full)
	return bar + string(progressBlocks[i%len(progressBlocks)])
}

// Run sends a progress message into the event's chat, keeps editing it
// while task runs, and replaces the bar's suffix with the task's result.
// task runs on its own goroutine; Run blocks until it finishes or the
// timeout expires.
func (p *ProgressBar) Run(e *Event, task func() (string, error)) error {
	msg, err := e.SendText(progressString(0))
	if err != nil {
		return errors.Wrap(err, "sending progress message")
	}

	type result struct {
		text string
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		text, err := task()
		resCh <- result{text: text, err: err}
	}()

	ticker := time.NewTicker(p.UpdateInterval)
	defer ticker.Stop()
	deadline := time.After(p.Timeout)

	for i := 1; ; i++ {
		select {
		case res := <-resCh:
			suffix := p.DoneStr
			if res.err != nil {
				suffix = p.FailedStr
			}
			text := progressString(i) + " " + suffix
			if res.text != "" {
				text += " " + res.text
			}
			if _, err := e.EditMessage(msg.MessageID, text); err != nil {
				return errors.Wrap(err, "finishing progress message")
			}
			return res.err

		case <-deadline:
			if _, err := e.EditMessage(msg.MessageID, progressString(i)+" "+p.FailedStr); err != nil {
				return errors.Wrap(err, "expiring progress message")
			}
			return errors.Errorf("task did not finish within %s", p.Timeout)

		case <-ticker.C:
			if _, err := e.EditMessage(msg.MessageID, progressString(i)); err != nil {
				return errors.Wrap(err, "updating progress message")
			}
		}
	}
}
