package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// ListByDay получает все слоты на заданный день недели
func (r *SlotRepository) ListByDay(ctx context.Context, day model.Weekday) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT id, day, start_time, lesson_type, instructor, max_capacity, booked_count, created_at
		FROM schedule_slots
		WHERE day = $1
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, int(day))
	if err != nil {
		return nil, fmt.Errorf("list slots by day: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// LessonTypesByDay получает типы занятий, проводимых в заданный день
func (r *SlotRepository) LessonTypesByDay(ctx context.Context, day model.Weekday) ([]string, error) {
	query := `
		SELECT DISTINCT lesson_type
		FROM schedule_slots
		WHERE day = $1
		ORDER BY lesson_type
	`

	rows, err := r.pool.Query(ctx, query, int(day))
	if err != nil {
		return nil, fmt.Errorf("lesson types by day: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var lt string
		if err := rows.Scan(&lt); err != nil {
			return nil, fmt.Errorf("scan lesson type: %w", err)
		}
		types = append(types, lt)
	}

	return types, rows.Err()
}

// GetByKeyForUpdate получает слот по составному ключу и блокирует строку
// до конца транзакции. Возвращает nil, nil если слот не найден.
func (r *SlotRepository) GetByKeyForUpdate(ctx context.Context, tx pgx.Tx, key model.SlotKey) (*model.ScheduleSlot, error) {
	query := `
		SELECT id, day, start_time, lesson_type, instructor, max_capacity, booked_count, created_at
		FROM schedule_slots
		WHERE day = $1 AND start_time = $2 AND lesson_type = $3
		FOR UPDATE
	`

	var slot model.ScheduleSlot
	err := tx.QueryRow(ctx, query, int(key.Day), key.StartTime, key.LessonType).Scan(
		&slot.ID,
		&slot.Day,
		&slot.StartTime,
		&slot.LessonType,
		&slot.Instructor,
		&slot.MaxCapacity,
		&slot.BookedCount,
		&slot.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot for update: %w", err)
	}

	return &slot, nil
}

// AddBooked изменяет счётчик занятых мест на delta внутри транзакции.
// CHECK-ограничение таблицы не даст счётчику выйти за пределы
// 0..max_capacity: нарушение вернётся ошибкой, а не испорченной строкой.
func (r *SlotRepository) AddBooked(ctx context.Context, tx pgx.Tx, key model.SlotKey, delta int) error {
	query := `
		UPDATE schedule_slots
		SET booked_count = booked_count + $1
		WHERE day = $2 AND start_time = $3 AND lesson_type = $4
	`

	result, err := tx.Exec(ctx, query, delta, int(key.Day), key.StartTime, key.LessonType)
	if err != nil {
		return fmt.Errorf("update booked count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %s %s %q not found", key.Day, key.StartTime, key.LessonType)
	}

	return nil
}

// CreateIfAbsent вставляет слот, если слота с таким ключом ещё нет.
// Возвращает true если строка была создана.
func (r *SlotRepository) CreateIfAbsent(ctx context.Context, slot *model.ScheduleSlot) (bool, error) {
	query := `
		INSERT INTO schedule_slots (day, start_time, lesson_type, instructor, max_capacity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT schedule_slots_key DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		int(slot.Day),
		slot.StartTime,
		slot.LessonType,
		slot.Instructor,
		slot.MaxCapacity,
	)
	if err != nil {
		return false, fmt.Errorf("create slot: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// RecountBooked пересчитывает booked_count из фактических записей.
// Держит счётчики консистентными после повторного сидирования.
func (r *SlotRepository) RecountBooked(ctx context.Context) error {
	query := `
		UPDATE schedule_slots s
		SET booked_count = (
			SELECT count(*)
			FROM reservations r
			WHERE r.day = s.day
			  AND r.start_time = s.start_time
			  AND r.lesson_type = s.lesson_type
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("recount booked slots: %w", err)
	}

	return nil
}

func scanSlots(rows pgx.Rows) ([]*model.ScheduleSlot, error) {
	var slots []*model.ScheduleSlot
	for rows.Next() {
		var slot model.ScheduleSlot
		err := rows.Scan(
			&slot.ID,
			&slot.Day,
			&slot.StartTime,
			&slot.LessonType,
			&slot.Instructor,
			&slot.MaxCapacity,
			&slot.BookedCount,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}
