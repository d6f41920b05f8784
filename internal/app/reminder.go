package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vkarpenko/dance-lessons-bot/internal/service"
	"go.uber.org/zap"
)

// sender минимальный интерфейс отправки сообщений, нужный напоминаниям
type sender interface {
	SendText(ctx context.Context, userID int64, text string) error
}

// Reminder фоновая задача: раз в час находит записи, занятия по которым
// начинаются через час, и рассылает владельцам напоминания
type Reminder struct {
	ledger   *service.LedgerService
	msg      sender
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewReminder создаёт новую задачу напоминаний
func NewReminder(ledger *service.LedgerService, msg sender, logger *zap.Logger) *Reminder {
	return &Reminder{
		ledger:   ledger,
		msg:      msg,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (r *Reminder) Start(ctx context.Context) {
	r.logger.Info("Starting reminder task")
	go r.run(ctx)
}

// Stop останавливает фоновую задачу
func (r *Reminder) Stop() {
	r.logger.Info("Stopping reminder task")
	close(r.stopChan)
}

func (r *Reminder) run(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sendReminders(ctx)
		case <-r.stopChan:
			r.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			r.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// sendReminders рассылает напоминания о занятиях, начинающихся через час
func (r *Reminder) sendReminders(ctx context.Context) {
	reservations, err := r.ledger.ReservationsStartingIn(ctx, time.Now(), 1)
	if err != nil {
		r.logger.Error("Failed to load upcoming reservations", zap.Error(err))
		return
	}

	for _, res := range reservations {
		text := fmt.Sprintf(
			"🔔 Напоминание: ваше занятие \"%s\" начнется через час в %s. Преподаватель: %s.",
			res.LessonType, res.StartTime, res.Instructor,
		)

		if err := r.msg.SendText(ctx, res.UserID, text); err != nil {
			r.logger.Error("Failed to send reminder",
				zap.Error(err),
				zap.Int64("user_id", res.UserID),
				zap.String("lesson_type", res.LessonType))
			continue
		}
	}

	if len(reservations) > 0 {
		r.logger.Info("Reminders sent", zap.Int("count", len(reservations)))
	}
}
