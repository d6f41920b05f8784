package dialog

import (
	"context"

	"github.com/google/uuid"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
)

// Button одна выбираемая опция меню
type Button struct {
	Label string
	Token string
}

// Menu упорядоченные ряды кнопок
type Menu [][]Button

// Messenger исходящая граница с транспортом: контроллеру достаточно уметь
// отправить пользователю текст, текст с меню или картинку.
type Messenger interface {
	SendText(ctx context.Context, userID int64, text string) error
	SendMenu(ctx context.Context, userID int64, text string, menu Menu) error
	SendPhoto(ctx context.Context, userID int64, caption string, png []byte) error
}

// Ledger операции учёта слотов и записей, нужные диалогам
type Ledger interface {
	SlotsByDay(ctx context.Context, day model.Weekday) ([]*model.ScheduleSlot, error)
	Reserve(ctx context.Context, userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error)
	Cancel(ctx context.Context, publicID uuid.UUID, userID int64) (*model.Reservation, error)
	ReservationsByUser(ctx context.Context, userID int64) ([]*model.Reservation, error)
	AllReservations(ctx context.Context) ([]*model.Reservation, error)
}
