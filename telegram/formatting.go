// Copyright (c) 2024, amarnathcjd

package telegram

import "strings"

const mdEscapes = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdown escapes text for safe interpolation into a MarkdownV2
// message. Always run user input through it before ReplyMarkdown.
func EscapeMarkdown(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, c := range text {
		if strings.ContainsRune(mdEscapes, c) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// EscapeCode escapes text for a MarkdownV2 inline-code or pre block, where
// only backtick and backslash are special.
func EscapeCode(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, c := range text {
		if c == '`' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
