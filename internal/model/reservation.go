package model

import (
	"time"

	"github.com/google/uuid"
)

// Reservation запись пользователя на один слот расписания.
// День, время, тип занятия и преподаватель денормализованы: они фиксируются
// в момент записи и не меняются при последующем редактировании расписания.
type Reservation struct {
	ID         int64     `json:"id"`
	PublicID   uuid.UUID `json:"public_id"` // используется в callback-токенах
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Day        Weekday   `json:"day"`
	StartTime  string    `json:"start_time"`
	LessonType string    `json:"lesson_type"`
	Instructor string    `json:"instructor"`
	CreatedAt  time.Time `json:"created_at"`
}

// SlotKey возвращает ключ слота, к которому привязана запись
func (r *Reservation) SlotKey() SlotKey {
	return SlotKey{Day: r.Day, StartTime: r.StartTime, LessonType: r.LessonType}
}
