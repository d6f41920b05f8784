package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"github.com/vkarpenko/dance-lessons-bot/internal/repository/base"
)

const reservationColumns = `id, public_id, user_id, name, phone, day, start_time, lesson_type, instructor, created_at`

type ReservationRepository struct {
	*base.Repository
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт запись внутри транзакции
func (r *ReservationRepository) Create(ctx context.Context, tx pgx.Tx, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (public_id, user_id, name, phone, day, start_time, lesson_type, instructor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		res.PublicID,
		res.UserID,
		res.Name,
		res.Phone,
		int(res.Day),
		res.StartTime,
		res.LessonType,
		res.Instructor,
	).Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

// GetByPublicIDForUpdate получает запись пользователя по публичному id
// и блокирует строку до конца транзакции. Чужая запись не видна:
// выборка ограничена user_id. Возвращает nil, nil если записи нет.
func (r *ReservationRepository) GetByPublicIDForUpdate(ctx context.Context, tx pgx.Tx, publicID uuid.UUID, userID int64) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE public_id = $1 AND user_id = $2
		FOR UPDATE
	`

	res, err := scanReservation(tx.QueryRow(ctx, query, publicID, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation for update: %w", err)
	}

	return res, nil
}

// Delete удаляет запись внутри транзакции
func (r *ReservationRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	result, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %d not found", id)
	}

	return nil
}

// ListByUser получает все живые записи пользователя
func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY day, start_time
	`

	rows, err := r.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by user: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListAll получает все живые записи: Пн..Сб, внутри дня по времени
func (r *ReservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		ORDER BY day, start_time, created_at
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListStartingAt получает записи на занятия в заданный день и время
func (r *ReservationRepository) ListStartingAt(ctx context.Context, day model.Weekday, startTime string) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE day = $1 AND start_time = $2
	`

	rows, err := r.Pool().Query(ctx, query, int(day), startTime)
	if err != nil {
		return nil, fmt.Errorf("list reservations starting at: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID,
		&res.PublicID,
		&res.UserID,
		&res.Name,
		&res.Phone,
		&res.Day,
		&res.StartTime,
		&res.LessonType,
		&res.Instructor,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	for rows.Next() {
		var res model.Reservation
		err := rows.Scan(
			&res.ID,
			&res.PublicID,
			&res.UserID,
			&res.Name,
			&res.Phone,
			&res.Day,
			&res.StartTime,
			&res.LessonType,
			&res.Instructor,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, rows.Err()
}
