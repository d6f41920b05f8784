package model

import "time"

// SlotKey составной ключ слота расписания: день + время + тип занятия.
// Время хранится строкой "HH:MM" (как в таблице schedule), лексикографический
// порядок совпадает с хронологическим.
type SlotKey struct {
	Day        Weekday
	StartTime  string
	LessonType string
}

// ScheduleSlot один повторяющийся недельный слот расписания
type ScheduleSlot struct {
	ID          int64     `json:"id"`
	Day         Weekday   `json:"day"`
	StartTime   string    `json:"start_time"`
	LessonType  string    `json:"lesson_type"`
	Instructor  string    `json:"instructor"` // может быть пустым
	MaxCapacity int       `json:"max_capacity"`
	BookedCount int       `json:"booked_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key возвращает составной ключ слота
func (s *ScheduleSlot) Key() SlotKey {
	return SlotKey{Day: s.Day, StartTime: s.StartTime, LessonType: s.LessonType}
}

// FreeSeats количество свободных мест
func (s *ScheduleSlot) FreeSeats() int {
	return s.MaxCapacity - s.BookedCount
}
