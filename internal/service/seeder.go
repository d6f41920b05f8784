package service

import (
	"context"
	"fmt"

	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"go.uber.org/zap"
)

// DefaultSchedule статичное недельное расписание студии.
// Загружается при старте; повторный запуск не создаёт дублей.
var DefaultSchedule = []*model.ScheduleSlot{
	{Day: model.Monday, StartTime: "20:00", LessonType: "STRIP 0/1", Instructor: "Ксения Петрушина", MaxCapacity: 8},
	{Day: model.Monday, StartTime: "21:00", LessonType: "STRETCHING", Instructor: "Ксения Петрушина", MaxCapacity: 8},
	{Day: model.Tuesday, StartTime: "14:00", LessonType: "STRIP 0/1", Instructor: "", MaxCapacity: 8},
	{Day: model.Tuesday, StartTime: "20:00", LessonType: "STRIP 1/2", Instructor: "Ксения Петрушина", MaxCapacity: 8},
	{Day: model.Wednesday, StartTime: "19:00", LessonType: "STRIP 0", Instructor: "Александра Паранюк", MaxCapacity: 8},
	{Day: model.Wednesday, StartTime: "20:00", LessonType: "STRIP 0/1", Instructor: "Екатерина Ручьева", MaxCapacity: 8},
	{Day: model.Thursday, StartTime: "20:00", LessonType: "ОФП + Stretching", Instructor: "Бондарева/Гутовская", MaxCapacity: 8},
	{Day: model.Friday, StartTime: "14:00", LessonType: "STRIP 0/1", Instructor: "", MaxCapacity: 8},
	{Day: model.Friday, StartTime: "20:00", LessonType: "STRIP 0/1", Instructor: "Ксения Петрушина", MaxCapacity: 8},
	{Day: model.Friday, StartTime: "21:00", LessonType: "STRIP 1/2", Instructor: "Ксения Петрушина", MaxCapacity: 8},
	{Day: model.Saturday, StartTime: "15:00", LessonType: "STRIP 0", Instructor: "Александра Паранюк", MaxCapacity: 8},
	{Day: model.Saturday, StartTime: "16:00", LessonType: "STRIP 0/1", Instructor: "Екатерина Ручьева", MaxCapacity: 8},
}

// Seeder заполняет расписание начальными данными
type Seeder struct {
	slots  SlotStore
	logger *zap.Logger
}

func NewSeeder(slots SlotStore, logger *zap.Logger) *Seeder {
	return &Seeder{slots: slots, logger: logger}
}

// Run вставляет отсутствующие слоты и пересчитывает booked_count по живым
// записям. Слоты с уже существующим ключом не трогаются, поэтому повторный
// запуск идемпотентен и не ломает счётчики.
func (s *Seeder) Run(ctx context.Context, schedule []*model.ScheduleSlot) error {
	created := 0
	for _, slot := range schedule {
		ok, err := s.slots.CreateIfAbsent(ctx, slot)
		if err != nil {
			return fmt.Errorf("seed slot %s %s %q: %w", slot.Day, slot.StartTime, slot.LessonType, err)
		}
		if ok {
			created++
		}
	}

	if err := s.slots.RecountBooked(ctx); err != nil {
		return fmt.Errorf("recount booked counts: %w", err)
	}

	s.logger.Info("Schedule seeded",
		zap.Int("total", len(schedule)),
		zap.Int("created", created),
	)

	return nil
}
