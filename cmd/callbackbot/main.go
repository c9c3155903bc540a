// Copyright (c) 2024, amarnathcjd

// callbackbot shows inline keyboards and callback handling: /ask sends a
// yes/no keyboard, the answer is acknowledged and the keyboard removed.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amarnathcjd/botgram/telegram"
)

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

	dispatcher := telegram.NewDispatcher[struct{}](client)

	dispatcher.AddRoute(telegram.OnMessage(telegram.MatchCommand("ask")),
		func(e *telegram.Event, _ *telegram.State[struct{}]) (telegram.Action, error) {
			chatID, err := e.Update.ChatID()
			if err != nil {
				return telegram.Done, err
			}
			_, err = client.SendMessage(&telegram.SendMessageRequest{
				ChatID: chatID,
				Text:   "Deploy to production?",
				ReplyMarkup: telegram.Button{}.Keyboard(
					telegram.Button{}.Row(
						telegram.Button{}.Data("Yes", "deploy:yes"),
						telegram.Button{}.Data("No", "deploy:no"),
					),
				),
			})
			return telegram.Done, err
		})

	dispatcher.AddRoute(telegram.OnCallback(telegram.MatchPrefix("deploy:")),
		func(e *telegram.Event, _ *telegram.State[struct{}]) (telegram.Action, error) {
			data, err := e.Update.Data()
			if err != nil {
				return telegram.Done, err
			}
			if err := e.AnswerCallback("noted"); err != nil {
				return telegram.Done, err
			}
			if _, err := e.RemoveInlineKeyboard(); err != nil {
				return telegram.Done, err
			}
			if data == "deploy:yes" {
				return telegram.ReplyText("Deploying."), nil
			}
			return telegram.ReplyText("Standing down."), nil
		})

	if err := dispatcher.Start(); err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	dispatcher.Stop()
}
