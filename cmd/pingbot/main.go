// Copyright (c) 2024, amarnathcjd

// pingbot replies to every message with a per-chat counter, the smallest
// useful bot built on the dispatcher.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amarnathcjd/botgram/telegram"
)

type chatState struct {
	Counter int
}

func main() {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_TOKEN is not set")
	}

	client, err := telegram.NewClient(telegram.ClientConfig{
		Token:    token,
		LogLevel: os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		log.Fatal(err)
	}

	dispatcher := telegram.NewDispatcher[chatState](client)

	dispatcher.AddRoute(telegram.Default(), telegram.LogHandler[chatState])
	dispatcher.AddRoute(telegram.OnMessage(telegram.MatchAny()),
		func(e *telegram.Event, state *telegram.State[chatState]) (telegram.Action, error) {
			text, err := e.Update.Text()
			if err != nil {
				return telegram.Done, err
			}
			var n int
			state.With(func(s *chatState) {
				s.Counter++
				n = s.Counter
			})
			return telegram.ReplyText(fmt.Sprintf("pong(%d): %s", n, text)), nil
		})

	if err := dispatcher.Start(); err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	dispatcher.Stop()
}
