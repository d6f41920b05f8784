package telegram

import (
	"github.com/go-telegram/bot/models"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/dialog"
)

// toKeyboard превращает меню контроллера в inline клавиатуру Telegram
func toKeyboard(menu dialog.Menu) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(menu))

	for _, row := range menu {
		if len(row) == 0 {
			continue
		}
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         btn.Label,
				CallbackData: btn.Token,
			})
		}
		rows = append(rows, buttons)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
