package model

import "time"

// Weekday день недели расписания. Воскресенье занятий не имеет,
// поэтому в перечислении только шесть дней.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Понедельник",
	Tuesday:   "Вторник",
	Wednesday: "Среда",
	Thursday:  "Четверг",
	Friday:    "Пятница",
	Saturday:  "Суббота",
}

// Weekdays все дни в порядке отображения (Пн..Сб)
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// String возвращает русское название дня
func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return "?"
}

// Valid проверяет что значение входит в перечисление
func (d Weekday) Valid() bool {
	_, ok := weekdayNames[d]
	return ok
}

// ParseWeekday преобразует числовое значение в Weekday
func ParseWeekday(v int) (Weekday, bool) {
	d := Weekday(v)
	return d, d.Valid()
}

// WeekdayFromTime сопоставляет time.Weekday дню расписания.
// Для воскресенья возвращает false.
func WeekdayFromTime(wd time.Weekday) (Weekday, bool) {
	if wd == time.Sunday {
		return 0, false
	}
	return Weekday(int(wd)), true
}
