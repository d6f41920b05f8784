package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
)

// DB открывает транзакции. Реализуется *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SlotStore хранилище слотов расписания.
// Методы с параметром tx выполняются внутри открытой транзакции и
// полагаются на её блокировки.
type SlotStore interface {
	ListByDay(ctx context.Context, day model.Weekday) ([]*model.ScheduleSlot, error)
	LessonTypesByDay(ctx context.Context, day model.Weekday) ([]string, error)
	GetByKeyForUpdate(ctx context.Context, tx pgx.Tx, key model.SlotKey) (*model.ScheduleSlot, error)
	AddBooked(ctx context.Context, tx pgx.Tx, key model.SlotKey, delta int) error
	CreateIfAbsent(ctx context.Context, slot *model.ScheduleSlot) (bool, error)
	RecountBooked(ctx context.Context) error
}

// ReservationStore хранилище записей на занятия
type ReservationStore interface {
	Create(ctx context.Context, tx pgx.Tx, res *model.Reservation) error
	GetByPublicIDForUpdate(ctx context.Context, tx pgx.Tx, publicID uuid.UUID, userID int64) (*model.Reservation, error)
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error)
	ListAll(ctx context.Context) ([]*model.Reservation, error)
	ListStartingAt(ctx context.Context, day model.Weekday, startTime string) ([]*model.Reservation, error)
}
