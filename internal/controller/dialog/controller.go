// Package dialog реализует разговорный контроллер: машину состояний
// многошаговой записи (день → слот → имя → телефон) и диалог отмены.
// От транспорта пакет отвязан интерфейсом Messenger, от хранилища —
// интерфейсом Ledger.
package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/vkarpenko/dance-lessons-bot/internal/controller/events"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/state"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"github.com/vkarpenko/dance-lessons-bot/internal/render"
	"github.com/vkarpenko/dance-lessons-bot/internal/service"
	"go.uber.org/zap"
)

type Controller struct {
	sessions *state.Manager
	ledger   Ledger
	msg      Messenger
	adminID  int64
	logger   *zap.Logger
}

func NewController(
	sessions *state.Manager,
	ledger Ledger,
	msg Messenger,
	adminID int64,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		sessions: sessions,
		ledger:   ledger,
		msg:      msg,
		adminID:  adminID,
		logger:   logger,
	}
}

// Start обрабатывает команду /start: приветствие и меню выбора дня
func (c *Controller) Start(ctx context.Context, userID int64) {
	c.beginBooking(ctx, userID,
		"👋 Добро пожаловать! Выберите день для записи на групповое занятие танцами:")
}

// FreeSlots обрабатывает команду /free_slots
func (c *Controller) FreeSlots(ctx context.Context, userID int64) {
	c.beginBooking(ctx, userID, "Выберите день недели:")
}

func (c *Controller) beginBooking(ctx context.Context, userID int64, text string) {
	c.sessions.Put(userID, state.Session{Step: state.StepAwaitingDay})
	c.send(ctx, userID, func() error {
		return c.msg.SendMenu(ctx, userID, text, daysMenu())
	})
}

// MyBookings показывает записи пользователя. Состояние диалога не меняется.
func (c *Controller) MyBookings(ctx context.Context, userID int64) {
	reservations, err := c.ledger.ReservationsByUser(ctx, userID)
	if err != nil {
		c.logger.Error("Failed to list user reservations", zap.Error(err), zap.Int64("user_id", userID))
		c.sendText(ctx, userID, "❌ Произошла ошибка при получении ваших бронирований.")
		return
	}

	if len(reservations) == 0 {
		c.sendText(ctx, userID, "📜 У вас нет активных бронирований.")
		return
	}

	c.sendText(ctx, userID, formatUserBookings(reservations))
}

// StartCancellation начинает диалог отмены бронирования
func (c *Controller) StartCancellation(ctx context.Context, userID int64) {
	reservations, err := c.ledger.ReservationsByUser(ctx, userID)
	if err != nil || len(reservations) == 0 {
		if err != nil {
			c.logger.Error("Failed to list user reservations", zap.Error(err), zap.Int64("user_id", userID))
		}
		c.sendText(ctx, userID, "🚫 У вас нет активных бронирований.")
		return
	}

	c.sessions.Put(userID, state.Session{Step: state.StepAwaitingCancelPick})
	c.send(ctx, userID, func() error {
		return c.msg.SendMenu(ctx, userID, "Выберите бронирование для отмены:", cancelMenu(reservations))
	})
}

// AdminPanel показывает административную панель. Для всех, кроме
// администратора, команда молча игнорируется.
func (c *Controller) AdminPanel(ctx context.Context, userID int64) {
	if !c.isAdmin(userID) {
		return
	}

	c.send(ctx, userID, func() error {
		return c.msg.SendMenu(ctx, userID, "⚙️ Административная панель:", adminMenu())
	})
}

// HandleEvent обрабатывает типизированное событие выбора
func (c *Controller) HandleEvent(ctx context.Context, userID int64, ev events.Event) {
	switch ev.Kind {
	case events.KindDaySelected:
		c.handleDaySelected(ctx, userID, ev.Day)
	case events.KindSlotSelected:
		c.handleSlotSelected(ctx, userID, ev.StartTime, ev.LessonType)
	case events.KindBackToDays:
		c.sessions.Put(userID, state.Session{Step: state.StepAwaitingDay})
		c.send(ctx, userID, func() error {
			return c.msg.SendMenu(ctx, userID, "Вы вернулись к главному меню.", daysMenu())
		})
	case events.KindMyBookings:
		c.MyBookings(ctx, userID)
	case events.KindCancelStart:
		c.StartCancellation(ctx, userID)
	case events.KindCancelReservation:
		c.handleCancelReservation(ctx, userID, ev)
	case events.KindShowAllBookings:
		c.handleShowAllBookings(ctx, userID)
	case events.KindScheduleImage:
		c.handleScheduleImage(ctx, userID)
	default:
		c.logger.Warn("Unhandled event kind", zap.Int("kind", int(ev.Kind)), zap.Int64("user_id", userID))
	}
}

// HandleText обрабатывает свободный текстовый ввод. Вне диалога (нет
// активной сессии) ввод игнорируется.
func (c *Controller) HandleText(ctx context.Context, userID int64, text string) {
	session, ok := c.sessions.Get(userID)
	if !ok {
		return
	}

	switch session.Step {
	case state.StepAwaitingName:
		// Имя сохраняется как есть, без валидации
		session.Name = text
		session.Step = state.StepAwaitingPhone
		c.sessions.Put(userID, session)
		c.sendText(ctx, userID, "Введите ваш номер телефона:")

	case state.StepAwaitingPhone:
		session.Phone = text
		c.finishReservation(ctx, userID, session)

	default:
		// Ввод вне шагов имени/телефона — no-op
	}
}

func (c *Controller) handleDaySelected(ctx context.Context, userID int64, day model.Weekday) {
	slots, err := c.ledger.SlotsByDay(ctx, day)
	if err != nil {
		c.logger.Error("Failed to list slots", zap.Error(err), zap.Stringer("day", day))
		// Выбор дня не сохраняем: пользователь остаётся на шаге выбора дня
		c.sessions.Put(userID, state.Session{Step: state.StepAwaitingDay})
		c.sendText(ctx, userID, "Произошла ошибка. Пожалуйста, попробуйте снова.")
		return
	}

	if len(slots) == 0 {
		c.sessions.Put(userID, state.Session{Step: state.StepAwaitingDay})
		c.send(ctx, userID, func() error {
			return c.msg.SendMenu(ctx, userID, "На этот день занятий нет. Выберите другой день:", daysMenu())
		})
		return
	}

	c.sessions.Put(userID, state.Session{Step: state.StepAwaitingSlot, Day: day})
	c.send(ctx, userID, func() error {
		return c.msg.SendMenu(ctx, userID,
			fmt.Sprintf("Выберите время и тип занятия в %s:", day), slotsMenu(slots))
	})
}

func (c *Controller) handleSlotSelected(ctx context.Context, userID int64, startTime, lessonType string) {
	session, ok := c.sessions.Get(userID)
	if !ok || session.Step != state.StepAwaitingSlot || !session.Day.Valid() {
		// Нажатие на устаревшую клавиатуру: возвращаем к выбору дня
		c.sessions.Put(userID, state.Session{Step: state.StepAwaitingDay})
		c.send(ctx, userID, func() error {
			return c.msg.SendMenu(ctx, userID, "Сначала выберите день:", daysMenu())
		})
		return
	}

	session.StartTime = startTime
	session.LessonType = lessonType
	session.Step = state.StepAwaitingName
	c.sessions.Put(userID, session)

	c.sendText(ctx, userID, "Введите ваше имя:")
}

func (c *Controller) finishReservation(ctx context.Context, userID int64, session state.Session) {
	key := model.SlotKey{Day: session.Day, StartTime: session.StartTime, LessonType: session.LessonType}

	reservation, err := c.ledger.Reserve(ctx, userID, key, session.Name, session.Phone)

	// Независимо от исхода диалог завершён
	c.sessions.Clear(userID)

	switch {
	case err == nil:
		c.sendText(ctx, userID, fmt.Sprintf(
			"✅ Вы успешно записаны на занятие \"%s\" в %s в %s.\n"+
				"Ваш преподаватель: %s\n"+
				"Ваше имя: %s\n"+
				"Телефон: %s\n"+
				"Для отмены бронирования, используйте команду /cancel_booking",
			reservation.LessonType,
			reservation.Day,
			reservation.StartTime,
			reservation.Instructor,
			reservation.Name,
			reservation.Phone,
		))

	case errors.Is(err, service.ErrSlotFull):
		c.sendText(ctx, userID, "🚫 Извините, все места на это занятие уже заняты.")

	default:
		c.logger.Error("Failed to reserve slot",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Stringer("day", key.Day),
			zap.String("start_time", key.StartTime),
			zap.String("lesson_type", key.LessonType))
		c.sendText(ctx, userID, "❌ Произошла ошибка при сохранении данных. Попробуйте еще раз.")
	}
}

func (c *Controller) handleCancelReservation(ctx context.Context, userID int64, ev events.Event) {
	reservation, err := c.ledger.Cancel(ctx, ev.ReservationID, userID)

	c.sessions.Clear(userID)

	switch {
	case err == nil:
		c.sendText(ctx, userID, fmt.Sprintf(
			"Ваше бронирование на занятие \"%s\" в %s в %s было успешно отменено.",
			reservation.LessonType, reservation.Day, reservation.StartTime))

	case errors.Is(err, service.ErrReservationNotFound):
		c.sendText(ctx, userID, "Ошибка: не удалось найти ваше бронирование.")

	default:
		c.logger.Error("Failed to cancel reservation",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("reservation_id", ev.ReservationID.String()))
		c.sendText(ctx, userID, "Ошибка при отмене бронирования.")
	}
}

func (c *Controller) handleShowAllBookings(ctx context.Context, userID int64) {
	if !c.isAdmin(userID) {
		return
	}

	reservations, err := c.ledger.AllReservations(ctx)
	if err != nil {
		c.logger.Error("Failed to list all reservations", zap.Error(err))
		c.sendText(ctx, userID, "❌ Ошибка при получении списка записавшихся.")
		return
	}

	if len(reservations) == 0 {
		c.sendText(ctx, userID, "📜 Никто ещё не записался на занятия.")
		return
	}

	c.sendText(ctx, userID, formatAdminBookings(reservations))
}

func (c *Controller) handleScheduleImage(ctx context.Context, userID int64) {
	if !c.isAdmin(userID) {
		return
	}

	var slots []*model.ScheduleSlot
	for _, day := range model.Weekdays {
		daySlots, err := c.ledger.SlotsByDay(ctx, day)
		if err != nil {
			c.logger.Error("Failed to collect schedule for image", zap.Error(err), zap.Stringer("day", day))
			c.sendText(ctx, userID, "❌ Не удалось построить расписание.")
			return
		}
		slots = append(slots, daySlots...)
	}

	png, err := render.WeekImage(slots)
	if err != nil {
		c.logger.Error("Failed to render schedule image", zap.Error(err))
		c.sendText(ctx, userID, "❌ Не удалось построить расписание.")
		return
	}

	c.send(ctx, userID, func() error {
		return c.msg.SendPhoto(ctx, userID, "🗓 Недельное расписание", png)
	})
}

func (c *Controller) isAdmin(userID int64) bool {
	if userID == c.adminID {
		return true
	}
	// Молчаливый отказ: наличие админской поверхности не подтверждаем
	c.logger.Debug("Non-admin attempted admin action", zap.Int64("user_id", userID))
	return false
}

func (c *Controller) sendText(ctx context.Context, userID int64, text string) {
	c.send(ctx, userID, func() error {
		return c.msg.SendText(ctx, userID, text)
	})
}

func (c *Controller) send(ctx context.Context, userID int64, fn func() error) {
	if err := fn(); err != nil {
		c.logger.Error("Failed to send message", zap.Error(err), zap.Int64("user_id", userID))
	}
}
