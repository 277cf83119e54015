package telegram

import (
	"ShopBot/bot/chat"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const buttonsPerRow = 2

// OptionsKeyboard lays the options out as reply buttons, two per row.
func OptionsKeyboard(options chat.OptionSet) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, (len(options)+buttonsPerRow-1)/buttonsPerRow)
	for i := 0; i < len(options); i += buttonsPerRow {
		end := min(i+buttonsPerRow, len(options))
		row := make([]tgbotapi.KeyboardButton, 0, end-i)
		for _, o := range options[i:end] {
			row = append(row, tgbotapi.KeyboardButton{Text: o.Label})
		}
		rows = append(rows, row)
	}
	return tgbotapi.ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

// RemoveKeyboard hides a previously shown reply keyboard.
func RemoveKeyboard() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.ReplyKeyboardRemove{
		RemoveKeyboard: true,
	}
}
