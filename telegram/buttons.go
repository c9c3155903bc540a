// Copyright (c) 2024, amarnathcjd

package telegram

// Button builds inline keyboards fluently:
//
//	telegram.Button{}.Keyboard(
//	    telegram.Button{}.Row(
//	        telegram.Button{}.Data("Yes", "yes"),
//	        telegram.Button{}.Data("No", "no"),
//	    ),
//	)
type Button struct{}

func (Button) URL(text, url string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, URL: url}
}

func (Button) Data(text, data string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: data}
}

func (Button) SwitchInline(text, query string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, SwitchInlineQuery: query}
}

func (Button) Row(buttons ...InlineKeyboardButton) []InlineKeyboardButton {
	return buttons
}

func (Button) Keyboard(rows ...[]InlineKeyboardButton) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
