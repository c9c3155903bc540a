// Copyright (c) 2024, amarnathcjd

// Package telegram is the high-level bot framework: typed Bot API calls,
// the update dispatcher with per-session state, and the in-memory fake
// backend used to test bots without a network.
package telegram

import (
	"sync"
	"time"

	botgram "github.com/amarnathcjd/botgram"
	"github.com/pkg/errors"

	"github.com/amarnathcjd/botgram/internal/utils"
)

// Client is the typed Bot API surface. It wraps a botgram.Requester, so the
// same client runs against the real HTTP transport or the fake backend.
type Client struct {
	raw    botgram.Requester
	config *ClientConfig

	meMu sync.Mutex
	me   *User

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	Log *utils.Logger
}

// ClientConfig is the configuration struct for the client.
type ClientConfig struct {
	// Bot token from @BotFather. Ignored when Requester is set.
	Token string
	// API host, default: https://api.telegram.org
	APIHost string
	// Per-request HTTP timeout, default: 90s
	Timeout time.Duration
	// Set log level (trace, debug, info, warn, error, disable), default: info
	LogLevel string
	// Alternative transport. The fake backend plugs in here.
	Requester botgram.Requester
}

// NewClient returns a bot client for the given configuration.
func NewClient(c ClientConfig) (*Client, error) {
	raw := c.Requester
	if raw == nil {
		api, err := botgram.NewAPI(botgram.Config{
			Token:    c.Token,
			Host:     c.APIHost,
			Timeout:  c.Timeout,
			LogLevel: c.LogLevel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "bot api client")
		}
		raw = api
	}

	return &Client{
		raw:    raw,
		config: &c,
		stop:   make(chan struct{}),
		Log:    utils.NewLogger("botgram").SetLevelString(c.LogLevel),
	}, nil
}

// Raw exposes the underlying transport for method calls the typed surface
// does not cover.
func (c *Client) Raw() botgram.Requester {
	return c.raw
}

// Me returns the bot's own user, fetched once and cached. Returns nil when
// getMe fails; callers that need the error should use GetMe.
func (c *Client) Me() *User {
	c.meMu.Lock()
	defer c.meMu.Unlock()
	if c.me != nil {
		return c.me
	}
	me, err := c.GetMe()
	if err != nil {
		c.Log.WithError(err).Debug("getMe failed")
		return nil
	}
	c.me = me
	return c.me
}

// Idle blocks until Close is called.
func (c *Client) Idle() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.stop
	}()
	c.wg.Wait()
}

// Close releases Idle waiters.
func (c *Client) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}
