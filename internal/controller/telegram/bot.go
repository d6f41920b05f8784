package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/dialog"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/events"
	"go.uber.org/zap"
)

// BotController связывает Telegram-обновления с разговорным контроллером:
// команды и callback-данные декодируются здесь, дальше идут типизированные
// вызовы.
type BotController struct {
	bot    *bot.Bot
	dialog *dialog.Controller
	logger *zap.Logger
}

func NewBotController(botInstance *bot.Bot, dialogController *dialog.Controller, logger *zap.Logger) *BotController {
	return &BotController{
		bot:    botInstance,
		dialog: dialogController,
		logger: logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/free_slots", bot.MatchTypeExact, c.handleFreeSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/my_bookings", bot.MatchTypeExact, c.handleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel_booking", bot.MatchTypeExact, c.handleCancelBooking)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin_panel", bot.MatchTypeExact, c.handleAdminPanel)

	// Обработчик текстовых сообщений (шаги имени и телефона)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота.
// Административная команда в меню не публикуется.
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Записаться на занятие"},
		{Command: "free_slots", Description: "🗓 Свободные места"},
		{Command: "my_bookings", Description: "📜 Мои записи"},
		{Command: "cancel_booking", Description: "❌ Отменить запись"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

func (c *BotController) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.dialog.Start(ctx, update.Message.Chat.ID)
}

func (c *BotController) handleFreeSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.dialog.FreeSlots(ctx, update.Message.Chat.ID)
}

func (c *BotController) handleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.dialog.MyBookings(ctx, update.Message.Chat.ID)
}

func (c *BotController) handleCancelBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.dialog.StartCancellation(ctx, update.Message.Chat.ID)
}

func (c *BotController) handleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.dialog.AdminPanel(ctx, update.Message.Chat.ID)
}

func (c *BotController) handleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются своими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	c.dialog.HandleText(ctx, update.Message.Chat.ID, update.Message.Text)
}

func (c *BotController) handleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	userID := callback.From.ID

	ev, err := events.Decode(callback.Data)
	if err != nil {
		c.logger.Warn("Undecodable callback data",
			zap.Error(err),
			zap.Int64("user_id", userID))
		c.answerCallback(ctx, callback.ID, "❌ Неверный формат данных")
		return
	}

	c.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("user_id", userID))

	c.dialog.HandleEvent(ctx, userID, ev)
	c.answerCallback(ctx, callback.ID, "")
}

// answerCallback подтверждает callback query, чтобы у пользователя
// не крутился индикатор загрузки
func (c *BotController) answerCallback(ctx context.Context, callbackID, text string) {
	_, err := c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
	if err != nil {
		c.logger.Error("Failed to answer callback query", zap.Error(err))
	}
}
