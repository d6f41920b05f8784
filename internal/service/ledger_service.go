package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vkarpenko/dance-lessons-bot/internal/metrics"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"go.uber.org/zap"
)

// LedgerService учёт слотов и записей. Содержит единственный по-настоящему
// критичный алгоритм бота: проверку и изменение вместимости слота в одной
// транзакции, чтобы две одновременные записи на последнее место не прошли
// обе.
type LedgerService struct {
	db           DB
	slots        SlotStore
	reservations ReservationStore
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewLedgerService(
	db DB,
	slots SlotStore,
	reservations ReservationStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		db:           db,
		slots:        slots,
		reservations: reservations,
		metrics:      m,
		logger:       logger,
	}
}

// SlotsByDay получает слоты на день для меню выбора времени.
// Чтение не линеаризовано с конкурентными записями: показанное число
// свободных мест может устареть, итоговую проверку делает Reserve.
func (s *LedgerService) SlotsByDay(ctx context.Context, day model.Weekday) ([]*model.ScheduleSlot, error) {
	return s.slots.ListByDay(ctx, day)
}

// LessonTypesByDay получает типы занятий, проводимых в заданный день
func (s *LedgerService) LessonTypesByDay(ctx context.Context, day model.Weekday) ([]string, error) {
	return s.slots.LessonTypesByDay(ctx, day)
}

// Reserve записывает пользователя на занятие. Проверка вместимости,
// вставка записи и инкремент счётчика выполняются одной транзакцией
// с блокировкой строки слота.
func (s *LedgerService) Reserve(ctx context.Context, userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	slot, err := s.slots.GetByKeyForUpdate(ctx, tx, key)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}

	if slot == nil {
		return nil, ErrSlotNotFound
	}

	if slot.BookedCount >= slot.MaxCapacity {
		s.metrics.IncCapacityExceeded()
		return nil, ErrSlotFull
	}

	reservation := &model.Reservation{
		PublicID:   uuid.New(),
		UserID:     userID,
		Name:       name,
		Phone:      phone,
		Day:        slot.Day,
		StartTime:  slot.StartTime,
		LessonType: slot.LessonType,
		Instructor: slot.Instructor,
	}

	if err := s.reservations.Create(ctx, tx, reservation); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	if err := s.slots.AddBooked(ctx, tx, key, 1); err != nil {
		return nil, fmt.Errorf("increment booked count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.metrics.IncReservations()
	s.logger.Info("Slot reserved",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("user_id", userID),
		zap.Stringer("day", key.Day),
		zap.String("start_time", key.StartTime),
		zap.String("lesson_type", key.LessonType),
	)

	return reservation, nil
}

// Cancel отменяет запись пользователя: удаление строки и декремент счётчика
// в одной транзакции. Запись ищется по публичному id в паре с user_id,
// поэтому чужая запись отменена быть не может.
func (s *LedgerService) Cancel(ctx context.Context, publicID uuid.UUID, userID int64) (*model.Reservation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reservation, err := s.reservations.GetByPublicIDForUpdate(ctx, tx, publicID, userID)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}

	if reservation == nil {
		return nil, ErrReservationNotFound
	}

	if err := s.reservations.Delete(ctx, tx, reservation.ID); err != nil {
		return nil, fmt.Errorf("delete reservation: %w", err)
	}

	// Счётчик не может уйти ниже нуля, пока инвариант
	// booked_count == числу живых записей держится; CHECK-ограничение
	// таблицы превращает любое нарушение в ошибку коммита.
	if err := s.slots.AddBooked(ctx, tx, reservation.SlotKey(), -1); err != nil {
		return nil, fmt.Errorf("decrement booked count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.metrics.IncCancellations()
	s.logger.Info("Reservation canceled",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("user_id", userID),
		zap.Stringer("day", reservation.Day),
		zap.String("start_time", reservation.StartTime),
	)

	return reservation, nil
}

// ReservationsByUser получает все живые записи пользователя
func (s *LedgerService) ReservationsByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// AllReservations получает все живые записи, упорядоченные Пн..Сб и по времени
func (s *LedgerService) AllReservations(ctx context.Context) ([]*model.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// ReservationsStartingIn получает записи на занятия, начинающиеся через
// hours часов от now. Занятия привязаны к целому часу, поэтому момент
// now+hours округляется до "HH:00". В воскресенье занятий нет.
func (s *LedgerService) ReservationsStartingIn(ctx context.Context, now time.Time, hours int) ([]*model.Reservation, error) {
	target := now.Add(time.Duration(hours) * time.Hour)

	day, ok := model.WeekdayFromTime(target.Weekday())
	if !ok {
		return nil, nil
	}

	startTime := fmt.Sprintf("%02d:00", target.Hour())
	return s.reservations.ListStartingAt(ctx, day, startTime)
}
