// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// RouteKind is the coarse event category, ignoring the matcher. The
// dispatcher's registry is bucketed by it.
type RouteKind int

const (
	RouteAny RouteKind = iota
	RouteNewMessage
	RouteEditedMessage
	RouteChannelPost
	RouteEditedChannelPost
	RouteCallbackQuery
	RouteInlineQuery
)

func (k RouteKind) String() string {
	switch k {
	case RouteAny:
		return "any"
	case RouteNewMessage:
		return "message"
	case RouteEditedMessage:
		return "edited_message"
	case RouteChannelPost:
		return "channel_post"
	case RouteEditedChannelPost:
		return "edited_channel_post"
	case RouteCallbackQuery:
		return "callback_query"
	case RouteInlineQuery:
		return "inline_query"
	default:
		return "unknown"
	}
}

type matcherKind int

const (
	matchAny matcherKind = iota
	matchExact
	matchPrefix
	matchRegex
	matchCommand
	matchPhoto
	matchDocument
)

// Matcher is a predicate over an update's text or content kind. Matchers are
// immutable after construction; regex patterns are compiled eagerly.
type Matcher struct {
	kind matcherKind
	text string
	re   *regexp.Regexp
}

// MatchAny matches everything.
func MatchAny() Matcher { return Matcher{kind: matchAny} }

// MatchExact matches text equal to s, case sensitive.
func MatchExact(s string) Matcher { return Matcher{kind: matchExact, text: s} }

// MatchPrefix matches text starting with s.
func MatchPrefix(s string) Matcher { return Matcher{kind: matchPrefix, text: s} }

// MatchRegex matches text against the pattern, unanchored. Panics on an
// invalid pattern, so bad routes fail at registration, not dispatch.
func MatchRegex(pattern string) Matcher {
	return Matcher{kind: matchRegex, text: pattern, re: regexp.MustCompile(pattern)}
}

// MatchCommand matches text starting with "/name".
func MatchCommand(name string) Matcher { return Matcher{kind: matchCommand, text: name} }

// MatchPhoto matches messages carrying a photo.
func MatchPhoto() Matcher { return Matcher{kind: matchPhoto} }

// MatchDocument matches messages carrying a general file.
func MatchDocument() Matcher { return Matcher{kind: matchDocument} }

// matchText evaluates the matcher against a text payload. Content-kind
// matchers (photo, document) never match on text.
func (m Matcher) matchText(s string) bool {
	switch m.kind {
	case matchAny:
		return true
	case matchExact:
		return s == m.text
	case matchPrefix:
		return strings.HasPrefix(s, m.text)
	case matchRegex:
		return m.re.MatchString(s)
	case matchCommand:
		return strings.HasPrefix(s, "/"+m.text)
	default:
		return false
	}
}

// Route pairs an event category with a matcher.
type Route struct {
	Kind    RouteKind
	Matcher Matcher
}

func OnMessage(m Matcher) Route           { return Route{Kind: RouteNewMessage, Matcher: m} }
func OnEditedMessage(m Matcher) Route     { return Route{Kind: RouteEditedMessage, Matcher: m} }
func OnChannelPost(m Matcher) Route       { return Route{Kind: RouteChannelPost, Matcher: m} }
func OnEditedChannelPost(m Matcher) Route { return Route{Kind: RouteEditedChannelPost, Matcher: m} }
func OnCallback(m Matcher) Route          { return Route{Kind: RouteCallbackQuery, Matcher: m} }
func OnInline(m Matcher) Route            { return Route{Kind: RouteInlineQuery, Matcher: m} }
func OnAny(m Matcher) Route               { return Route{Kind: RouteAny, Matcher: m} }

// Default is the global catch-all route.
func Default() Route { return OnAny(MatchAny()) }

// with re-attaches a matcher to the route's family.
func (r Route) with(m Matcher) Route {
	return Route{Kind: r.Kind, Matcher: m}
}

// matchUpdate tests the route against an update's payload. Messages without
// text never match text matchers; photo/document matchers test content kind
// only. For the any family, the matcher is tested against every populated
// sub-payload and one hit is enough.
func (r Route) matchUpdate(u *Update) bool {
	switch r.Kind {
	case RouteNewMessage:
		switch r.Matcher.kind {
		case matchPhoto:
			return u.Message != nil && len(u.Message.Photo) > 0
		case matchDocument:
			return u.Message != nil && u.Message.Document != nil
		default:
			return u.Message != nil && u.Message.Text != "" && r.Matcher.matchText(u.Message.Text)
		}
	case RouteEditedMessage:
		return u.EditedMessage != nil && u.EditedMessage.Text != "" && r.Matcher.matchText(u.EditedMessage.Text)
	case RouteChannelPost:
		return u.ChannelPost != nil && u.ChannelPost.Text != "" && r.Matcher.matchText(u.ChannelPost.Text)
	case RouteEditedChannelPost:
		return u.EditedChannelPost != nil && u.EditedChannelPost.Text != "" && r.Matcher.matchText(u.EditedChannelPost.Text)
	case RouteCallbackQuery:
		return u.CallbackQuery != nil && u.CallbackQuery.Data != "" && r.Matcher.matchText(u.CallbackQuery.Data)
	case RouteInlineQuery:
		return u.InlineQuery != nil && r.Matcher.matchText(u.InlineQuery.Query)
	case RouteAny:
		matched := false
		if u.Message != nil && u.Message.Text != "" {
			matched = matched || r.Matcher.matchText(u.Message.Text)
		}
		if u.EditedMessage != nil && u.EditedMessage.Text != "" {
			matched = matched || r.Matcher.matchText(u.EditedMessage.Text)
		}
		if u.ChannelPost != nil && u.ChannelPost.Text != "" {
			matched = matched || r.Matcher.matchText(u.ChannelPost.Text)
		}
		if u.EditedChannelPost != nil && u.EditedChannelPost.Text != "" {
			matched = matched || r.Matcher.matchText(u.EditedChannelPost.Text)
		}
		if u.CallbackQuery != nil && u.CallbackQuery.Data != "" {
			matched = matched || r.Matcher.matchText(u.CallbackQuery.Data)
		}
		if u.InlineQuery != nil {
			matched = matched || r.Matcher.matchText(u.InlineQuery.Query)
		}
		return matched
	default:
		return false
	}
}

// classifyUpdate resolves an update into its session key and route family.
// An update is claimed by exactly one family: message-ish updates key by
// chat id, inline queries key by the sender's user id, callback queries
// without an attached message fall back to session key 0.
func classifyUpdate(u *Update) (int64, RouteKind, error) {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID, RouteNewMessage, nil
	case u.EditedMessage != nil:
		return u.EditedMessage.Chat.ID, RouteEditedMessage, nil
	case u.ChannelPost != nil:
		return u.ChannelPost.Chat.ID, RouteChannelPost, nil
	case u.EditedChannelPost != nil:
		return u.EditedChannelPost.Chat.ID, RouteEditedChannelPost, nil
	case u.CallbackQuery != nil:
		if u.CallbackQuery.Message != nil {
			return u.CallbackQuery.Message.Chat.ID, RouteCallbackQuery, nil
		}
		return 0, RouteCallbackQuery, nil
	case u.InlineQuery != nil:
		return u.InlineQuery.From.ID, RouteInlineQuery, nil
	default:
		return 0, RouteAny, errors.Errorf("unrecognized update type (id %d)", u.UpdateID)
	}
}
