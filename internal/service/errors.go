package service

import "errors"

var (
	// ErrSlotNotFound слот с таким ключом не существует в расписании
	ErrSlotNotFound = errors.New("schedule slot not found")

	// ErrSlotFull на занятие больше нет свободных мест
	ErrSlotFull = errors.New("slot capacity exceeded")

	// ErrReservationNotFound запись не существует или принадлежит другому пользователю
	ErrReservationNotFound = errors.New("reservation not found")
)
