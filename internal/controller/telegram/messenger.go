package telegram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/dialog"
)

// Messenger реализация исходящей границы контроллера поверх Telegram.
// Идентификатор пользователя совпадает с chat id личной переписки.
type Messenger struct {
	bot *bot.Bot
}

func NewMessenger(b *bot.Bot) *Messenger {
	return &Messenger{bot: b}
}

func (m *Messenger) SendText(ctx context.Context, userID int64, text string) error {
	_, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message to %d: %w", userID, err)
	}
	return nil
}

func (m *Messenger) SendMenu(ctx context.Context, userID int64, text string, menu dialog.Menu) error {
	_, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        text,
		ReplyMarkup: toKeyboard(menu),
	})
	if err != nil {
		return fmt.Errorf("send menu to %d: %w", userID, err)
	}
	return nil
}

func (m *Messenger) SendPhoto(ctx context.Context, userID int64, caption string, png []byte) error {
	_, err := m.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  userID,
		Caption: caption,
		Photo: &models.InputFileUpload{
			Filename: "schedule.png",
			Data:     bytes.NewReader(png),
		},
	})
	if err != nil {
		return fmt.Errorf("send photo to %d: %w", userID, err)
	}
	return nil
}
