// Copyright (c) 2024, amarnathcjd

// Package botgram implements the low-level Telegram Bot API wire client.
// Everything above the raw "post a method, read the response envelope"
// surface lives in the telegram package.
package botgram

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/botgram/internal/utils"
)

const (
	// DefaultHost is the production Bot API endpoint.
	DefaultHost = "https://api.telegram.org"

	defaultRequestTimeout = 90 * time.Second
)

// Requester is the outbound call surface of the Bot API. The real HTTP
// client and the fake in-memory server both implement it, which is how the
// dispatch engine runs unchanged against either.
type Requester interface {
	// Post issues one Bot API method call and returns the raw JSON of the
	// "result" field. A non-ok envelope is returned as an *APIError.
	Post(ctx context.Context, method string, payload any) (json.RawMessage, error)
}

// Config is the configuration for the raw API client.
type Config struct {
	// Bot token obtained from @BotFather.
	Token string
	// API host, default: https://api.telegram.org
	Host string
	// Per-request timeout. Must be longer than the long-poll timeout used
	// by the dispatcher, default: 90s
	Timeout time.Duration
	// Custom HTTP client, default: http.DefaultClient semantics with Timeout
	HTTPClient *http.Client
	// Log level (trace, debug, info, warn, error, disable), default: info
	LogLevel string
}

// API is the raw Bot API HTTP client. All requests are JSON-encoded POSTs
// to <host>/bot<token>/<method>.
type API struct {
	baseURL string
	httpc   *http.Client
	Log     *utils.Logger
}

var _ Requester = (*API)(nil)

// NewAPI returns a raw client for the given bot token.
func NewAPI(c Config) (*API, error) {
	if c.Token == "" {
		return nil, errors.New("bot token cannot be empty, get one from @BotFather")
	}

	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	host = strings.TrimSuffix(host, "/")

	httpc := c.HTTPClient
	if httpc == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpc = &http.Client{Timeout: timeout}
	}

	return &API{
		baseURL: host + "/bot" + c.Token,
		httpc:   httpc,
		Log:     utils.NewLogger("botgram [api]").SetLevelString(c.LogLevel),
	}, nil
}

// Post implements Requester over HTTP.
func (a *API) Post(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s request", method)
	}
	if payload == nil {
		body = []byte("{}")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "building %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	a.Log.Trace("POST /%s %s", method, body)

	resp, err := a.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "posting %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", method)
	}

	return DecodeResponse(method, raw)
}

// Response is the Bot API response envelope. If Ok is false, Description
// carries the error text and Parameters may carry retry hints.
type Response struct {
	Ok          bool                `json:"ok"`
	Description string              `json:"description,omitempty"`
	Result      json.RawMessage     `json:"result,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// ResponseParameters carries additional error data, like the flood-wait
// timeout in seconds.
type ResponseParameters struct {
	RetryAfter      int   `json:"retry_after,omitempty"`
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
}

// DecodeResponse unwraps a raw envelope into its result, converting non-ok
// envelopes into *APIError.
func DecodeResponse(method string, raw []byte) (json.RawMessage, error) {
	var env Response
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrapf(err, "decoding %s response", method)
	}

	if !env.Ok {
		return nil, envelopeError(method, &env)
	}
	if env.Result == nil {
		return nil, &APIError{Method: method, Description: "no result in response"}
	}
	return env.Result, nil
}

// EncodeResponse builds a raw envelope around a result value. Used by the
// fake backend so both transports speak the identical wire shape.
func EncodeResponse(result any) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "encoding result")
	}
	return json.Marshal(&Response{Ok: true, Result: raw})
}

// EncodeError builds a non-ok envelope.
func EncodeError(code int, description string) []byte {
	raw, _ := json.Marshal(&Response{Ok: false, ErrorCode: code, Description: description})
	return raw
}
