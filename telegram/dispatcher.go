// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/k0kubun/pp"
	"github.com/pkg/errors"

	"github.com/amarnathcjd/botgram/internal/session"
	"github.com/amarnathcjd/botgram/internal/utils"
)

const (
	defaultPollTimeout = 60 * time.Second
	defaultPollLimit   = 100
	defaultRetryDelay  = 1 * time.Second

	janitorInterval = time.Minute
)

// ErrorHandler is the replaceable error policy. It is invoked when a
// handler fails, a reply action cannot be delivered, or no chain exists
// for a route. It must not panic; its own failures are only logged.
type ErrorHandler[S any] func(c *Client, chatID int64, state *State[S], err error)

// Dispatcher owns the poll loop and the frozen route registry, classifies
// each fetched update, and runs the matching handler chain with that
// session's state cell. S is the per-session state type shared by every
// handler registered on the dispatcher.
type Dispatcher[S any] struct {
	client *Client
	log    *utils.Logger

	mu       sync.RWMutex
	handlers map[RouteKind][]handlerEntry[S]
	started  bool

	store      *stateStore[S]
	initial    S
	onError    ErrorHandler[S]
	metrics    *Metrics
	sessLoader session.Loader

	pollTimeout time.Duration
	pollLimit   int
	retryDelay  time.Duration
	sessionTTL  time.Duration
	drainOnStop bool

	offsetMu sync.Mutex
	offset   int64

	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
	cancelPoll context.CancelFunc
	wg         sync.WaitGroup
}

// NewDispatcher returns a dispatcher for the client. Routes are added with
// AddRoute before Start; the registry is frozen once the poll loop runs.
func NewDispatcher[S any](c *Client) *Dispatcher[S] {
	return &Dispatcher[S]{
		client:      c,
		log:         c.Log.WithPrefix("botgram [dispatcher]"),
		handlers:    make(map[RouteKind][]handlerEntry[S]),
		pollTimeout: defaultPollTimeout,
		pollLimit:   defaultPollLimit,
		retryDelay:  defaultRetryDelay,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// WithState sets the initial value cloned into every new session cell.
// A handler registered with AddRouteWithState overrides it for the
// sessions it seeds.
func (d *Dispatcher[S]) WithState(initial S) *Dispatcher[S] {
	d.initial = initial
	return d
}

// WithErrorHandler replaces the default error policy.
func (d *Dispatcher[S]) WithErrorHandler(fn ErrorHandler[S]) *Dispatcher[S] {
	d.onError = fn
	return d
}

// WithPollTimeout sets the long-poll timeout of getUpdates calls.
func (d *Dispatcher[S]) WithPollTimeout(t time.Duration) *Dispatcher[S] {
	d.pollTimeout = t
	return d
}

// WithPollLimit caps the batch size of one getUpdates call.
func (d *Dispatcher[S]) WithPollLimit(n int) *Dispatcher[S] {
	d.pollLimit = n
	return d
}

// WithRetryDelay sets the pause after a failed poll.
func (d *Dispatcher[S]) WithRetryDelay(t time.Duration) *Dispatcher[S] {
	d.retryDelay = t
	return d
}

// WithSessionTTL enables eviction of session state idle longer than ttl.
// Without it sessions live for the process lifetime.
func (d *Dispatcher[S]) WithSessionTTL(ttl time.Duration) *Dispatcher[S] {
	d.sessionTTL = ttl
	return d
}

// WithDrainOnStop makes Stop wait for in-flight dispatches to finish
// instead of only stopping the poll loop.
func (d *Dispatcher[S]) WithDrainOnStop() *Dispatcher[S] {
	d.drainOnStop = true
	return d
}

// WithMetrics attaches prometheus instrumentation.
func (d *Dispatcher[S]) WithMetrics(m *Metrics) *Dispatcher[S] {
	d.metrics = m
	return d
}

// WithSession persists the poll offset through the loader so a restart
// resumes where the previous run acknowledged.
func (d *Dispatcher[S]) WithSession(loader session.Loader) *Dispatcher[S] {
	d.sessLoader = loader
	return d
}

// AddRoute appends a handler to the chain of the route's family. Handlers
// run in registration order. Calls after Start are rejected.
func (d *Dispatcher[S]) AddRoute(r Route, h Handler[S]) *Dispatcher[S] {
	return d.addRoute(r, handlerEntry[S]{matcher: r.Matcher, fn: h})
}

// AddRouteWithState is AddRoute with a handler-scoped initial state: a
// session first seen by this handler clones initial instead of the
// dispatcher-level value.
func (d *Dispatcher[S]) AddRouteWithState(r Route, h Handler[S], initial S) *Dispatcher[S] {
	return d.addRoute(r, handlerEntry[S]{matcher: r.Matcher, fn: h, initial: initial, hasInitial: true})
}

func (d *Dispatcher[S]) addRoute(r Route, entry handlerEntry[S]) *Dispatcher[S] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		d.log.Error("AddRoute after Start is ignored (route %s)", r.Kind)
		return d
	}
	d.handlers[r.Kind] = append(d.handlers[r.Kind], entry)
	return d
}

// LastUpdateID returns the highest update id seen so far. The next poll
// asks for LastUpdateID()+1.
func (d *Dispatcher[S]) LastUpdateID() int64 {
	d.offsetMu.Lock()
	defer d.offsetMu.Unlock()
	return d.offset
}

func (d *Dispatcher[S]) bumpOffset(id int64) {
	d.offsetMu.Lock()
	if id > d.offset {
		d.offset = id
	}
	d.offsetMu.Unlock()
}

// Start freezes the registry and launches the poll loop. It returns
// immediately; use Wait or Stop to coordinate shutdown.
func (d *Dispatcher[S]) Start() error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return errors.New("dispatcher already started")
	}
	d.started = true
	d.store = newStateStore[S](d.sessionTTL)
	d.mu.Unlock()

	if d.onError == nil {
		d.onError = defaultErrorHandler[S]
	}

	if d.sessLoader != nil {
		if s, err := d.sessLoader.Load(); err == nil && s != nil {
			d.bumpOffset(s.Offset)
			d.log.Debug("resuming from offset %d (%s)", s.Offset, d.sessLoader.Path())
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancelPoll = cancel

	go d.pollLoop(ctx)
	if d.sessionTTL > 0 {
		go d.janitor()
	}

	d.log.Debug("dispatcher started (poll timeout %s, limit %d)", d.pollTimeout, d.pollLimit)
	return nil
}

// Stop requests a graceful shutdown and blocks until the poll loop has
// exited (and, with WithDrainOnStop, until in-flight dispatches finish).
// On a dispatcher that never started it returns immediately.
func (d *Dispatcher[S]) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
		if d.cancelPoll != nil {
			d.cancelPoll()
		}
	})
	if !d.isStarted() {
		return
	}
	<-d.done
}

// Wait blocks until the dispatcher has shut down. Returns immediately on a
// dispatcher that never started.
func (d *Dispatcher[S]) Wait() {
	if !d.isStarted() {
		return
	}
	<-d.done
}

func (d *Dispatcher[S]) isStarted() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.started
}

func (d *Dispatcher[S]) pollLoop(ctx context.Context) {
	defer close(d.done)
	defer func() {
		if d.drainOnStop {
			d.wg.Wait()
		}
	}()

	for {
		select {
		case <-d.stop:
			d.log.Info("received shutdown signal")
			return
		default:
		}

		updates, err := d.client.GetUpdates(ctx, &GetUpdatesRequest{
			Offset:  d.LastUpdateID() + 1,
			Limit:   d.pollLimit,
			Timeout: int(d.pollTimeout / time.Second),
		})
		if err != nil {
			if ctx.Err() != nil {
				continue // shutting down, the top of the loop exits
			}
			d.log.WithError(err).Error("polling getUpdates")
			if d.metrics != nil {
				d.metrics.PollErrors.Inc()
			}
			select {
			case <-time.After(d.retryDelay):
			case <-d.stop:
			}
			continue
		}

		for _, u := range updates {
			d.bumpOffset(u.UpdateID)
			if d.metrics != nil {
				d.metrics.UpdatesReceived.Inc()
			}
			if d.log.Level() <= utils.TraceLevel {
				d.log.Trace("update received\n%s", pp.Sprint(u))
			}

			u := u
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						d.log.Error("recovered from panic in dispatch: %v", r)
					}
				}()
				d.dispatch(u)
			}()
		}

		if d.sessLoader != nil && len(updates) > 0 {
			if err := d.sessLoader.Store(&session.Session{Offset: d.LastUpdateID()}); err != nil {
				d.log.WithError(err).Warn("storing poll offset")
			}
		}
	}
}

func (d *Dispatcher[S]) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case now := <-ticker.C:
			if n := d.store.evictStale(now); n > 0 {
				d.log.Debug("evicted %d idle sessions", n)
			}
			if d.metrics != nil {
				d.metrics.ActiveSessions.Set(float64(d.store.len()))
			}
		}
	}
}

// dispatch classifies one update and runs its handler chain. Failures stay
// local to this update; they never affect the poll loop or other sessions.
func (d *Dispatcher[S]) dispatch(u *Update) {
	key, kind, err := classifyUpdate(u)
	if err != nil {
		d.log.Warn("dropping update: %v", err)
		if d.metrics != nil {
			d.metrics.UpdatesDropped.Inc()
		}
		return
	}

	d.mu.RLock()
	chain, ok := d.handlers[kind]
	if !ok || len(chain) == 0 {
		chain, ok = d.handlers[RouteAny]
		ok = ok && len(chain) > 0
	}
	d.mu.RUnlock()

	if !ok {
		d.reportError(key, NewState(cloneValue(d.initial)),
			errors.Errorf("no handlers installed for route %s", kind))
		if d.metrics != nil {
			d.metrics.DispatchErrors.WithLabelValues("no_route").Inc()
		}
		return
	}

	route := Route{Kind: kind}
	for i := range chain {
		entry := &chain[i]
		if !route.with(entry.matcher).matchUpdate(u) {
			continue
		}

		state := d.store.getOrCreate(key, func() S {
			if entry.hasInitial {
				return cloneValue(entry.initial)
			}
			return cloneValue(d.initial)
		})
		if d.metrics != nil {
			d.metrics.ActiveSessions.Set(float64(d.store.len()))
		}

		started := time.Now()
		action, err := d.runHandler(entry.fn, u, state)
		if d.metrics != nil {
			d.metrics.HandlerDuration.Observe(time.Since(started).Seconds())
		}

		if err != nil {
			d.reportError(key, state, err)
			if d.metrics != nil {
				d.metrics.DispatchErrors.WithLabelValues("handler").Inc()
			}
			return
		}

		switch action.kind {
		case actionNext:
			continue

		case actionDone:
			return

		case actionReplyText, actionReplyMarkdown:
			req := &SendMessageRequest{ChatID: key, Text: action.payload}
			if action.kind == actionReplyMarkdown {
				req.ParseMode = ParseModeMarkdownV2
			}
			if _, err := d.client.SendMessage(req); err != nil {
				d.reportError(key, state, errors.Wrap(err, "sending reply"))
				if d.metrics != nil {
					d.metrics.DispatchErrors.WithLabelValues("reply").Inc()
				}
			}
			return

		case actionReplySticker:
			if _, err := d.client.SendSticker(&SendStickerRequest{ChatID: key, Sticker: action.payload}); err != nil {
				d.reportError(key, state, errors.Wrap(err, "sending sticker reply"))
				if d.metrics != nil {
					d.metrics.DispatchErrors.WithLabelValues("reply").Inc()
				}
			}
			return
		}
	}
}

func (d *Dispatcher[S]) runHandler(h Handler[S], u *Update, state *State[S]) (action Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("handler panic: %v", r)
		}
	}()
	return h(&Event{Client: d.client, Update: u}, state)
}

func (d *Dispatcher[S]) reportError(chatID int64, state *State[S], err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("recovered from panic in error handler: %v", r)
		}
	}()
	d.onError(d.client, chatID, state, err)
}

func defaultErrorHandler[S any](c *Client, chatID int64, _ *State[S], err error) {
	c.Log.WithError(err).Error("[HandlerError]")
	if _, sendErr := c.SendMessage(&SendMessageRequest{
		ChatID: chatID,
		Text:   "Handler error: " + err.Error(),
	}); sendErr != nil {
		c.Log.WithError(sendErr).Error("[ErrorHandler] reporting into chat")
	}
}
