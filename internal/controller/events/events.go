// Package events разбирает callback-данные Telegram в типизированные
// события. Токены декодируются один раз на границе транспорта; дальше
// по боту строки-префиксы не растекаются.
package events

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
)

// Kind вид события выбора
type Kind int

const (
	KindUnknown           Kind = iota
	KindDaySelected       // выбран день недели
	KindSlotSelected      // выбраны время и тип занятия
	KindBackToDays        // возврат к выбору дня
	KindMyBookings        // показать записи пользователя
	KindCancelStart       // начать диалог отмены
	KindCancelReservation // выбрана запись для отмены
	KindShowAllBookings   // админ: показать всех записавшихся
	KindScheduleImage     // админ: прислать расписание картинкой
)

// Event типизированное событие выбора. Заполнены только поля,
// относящиеся к виду события.
type Event struct {
	Kind          Kind
	Day           model.Weekday
	StartTime     string
	LessonType    string
	ReservationID uuid.UUID
}

// Префиксы и фиксированные токены callback-данных
const (
	dayPrefix    = "day:"
	slotPrefix   = "slot:"
	cancelPrefix = "cancel:"

	tokenBackToDays    = "back_days"
	tokenMyBookings    = "my_bookings"
	tokenCancelStart   = "cancel_booking"
	tokenShowBookings  = "admin_bookings"
	tokenScheduleImage = "admin_schedule"

	slotSeparator = "|"
)

// Decode разбирает callback-данные в событие
func Decode(data string) (Event, error) {
	switch data {
	case tokenBackToDays:
		return Event{Kind: KindBackToDays}, nil
	case tokenMyBookings:
		return Event{Kind: KindMyBookings}, nil
	case tokenCancelStart:
		return Event{Kind: KindCancelStart}, nil
	case tokenShowBookings:
		return Event{Kind: KindShowAllBookings}, nil
	case tokenScheduleImage:
		return Event{Kind: KindScheduleImage}, nil
	}

	switch {
	case strings.HasPrefix(data, dayPrefix):
		raw := strings.TrimPrefix(data, dayPrefix)
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Event{}, fmt.Errorf("bad day token %q: %w", data, err)
		}
		day, ok := model.ParseWeekday(v)
		if !ok {
			return Event{}, fmt.Errorf("bad day token %q: out of range", data)
		}
		return Event{Kind: KindDaySelected, Day: day}, nil

	case strings.HasPrefix(data, slotPrefix):
		payload := strings.TrimPrefix(data, slotPrefix)
		parts := strings.SplitN(payload, slotSeparator, 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Event{}, fmt.Errorf("bad slot token %q", data)
		}
		return Event{Kind: KindSlotSelected, StartTime: parts[0], LessonType: parts[1]}, nil

	case strings.HasPrefix(data, cancelPrefix):
		raw := strings.TrimPrefix(data, cancelPrefix)
		id, err := uuid.Parse(raw)
		if err != nil {
			return Event{}, fmt.Errorf("bad cancel token %q: %w", data, err)
		}
		return Event{Kind: KindCancelReservation, ReservationID: id}, nil
	}

	return Event{}, fmt.Errorf("unknown callback data %q", data)
}

// DayToken кодирует выбор дня
func DayToken(day model.Weekday) string {
	return dayPrefix + strconv.Itoa(int(day))
}

// SlotToken кодирует выбор времени и типа занятия
func SlotToken(startTime, lessonType string) string {
	return slotPrefix + startTime + slotSeparator + lessonType
}

// CancelToken кодирует выбор записи для отмены
func CancelToken(id uuid.UUID) string {
	return cancelPrefix + id.String()
}

// Фиксированные токены для построения клавиатур
func BackToDaysToken() string    { return tokenBackToDays }
func MyBookingsToken() string    { return tokenMyBookings }
func CancelStartToken() string   { return tokenCancelStart }
func ShowBookingsToken() string  { return tokenShowBookings }
func ScheduleImageToken() string { return tokenScheduleImage }
