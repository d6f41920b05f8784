package dialog

import (
	"fmt"

	"github.com/vkarpenko/dance-lessons-bot/internal/controller/events"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
)

// daysMenu клавиатура выбора дня: два ряда по три дня плюс ряд сервисных кнопок
func daysMenu() Menu {
	return Menu{
		{
			{Label: model.Monday.String(), Token: events.DayToken(model.Monday)},
			{Label: model.Tuesday.String(), Token: events.DayToken(model.Tuesday)},
			{Label: model.Wednesday.String(), Token: events.DayToken(model.Wednesday)},
		},
		{
			{Label: model.Thursday.String(), Token: events.DayToken(model.Thursday)},
			{Label: model.Friday.String(), Token: events.DayToken(model.Friday)},
			{Label: model.Saturday.String(), Token: events.DayToken(model.Saturday)},
		},
		{
			{Label: "❌ Отмена бронирования", Token: events.CancelStartToken()},
			{Label: "📜 Мои записи", Token: events.MyBookingsToken()},
		},
	}
}

// slotsMenu клавиатура выбора времени и типа занятия: по кнопке на слот
// с числом свободных мест, последним рядом кнопка "Назад"
func slotsMenu(slots []*model.ScheduleSlot) Menu {
	menu := make(Menu, 0, len(slots)+1)

	for _, slot := range slots {
		instructorText := ""
		if slot.Instructor != "" {
			instructorText = fmt.Sprintf(" (%s)", slot.Instructor)
		}

		label := fmt.Sprintf("%s - %s%s\nСвободно: %d мест",
			slot.StartTime, slot.LessonType, instructorText, slot.FreeSeats())

		menu = append(menu, []Button{
			{Label: label, Token: events.SlotToken(slot.StartTime, slot.LessonType)},
		})
	}

	menu = append(menu, []Button{{Label: "🔙 Назад", Token: events.BackToDaysToken()}})
	return menu
}

// cancelMenu клавиатура выбора записи для отмены
func cancelMenu(reservations []*model.Reservation) Menu {
	menu := make(Menu, 0, len(reservations))

	for _, res := range reservations {
		label := fmt.Sprintf("%s, %s, %s", res.Day, res.StartTime, res.LessonType)
		menu = append(menu, []Button{
			{Label: label, Token: events.CancelToken(res.PublicID)},
		})
	}

	return menu
}

// adminMenu клавиатура административной панели
func adminMenu() Menu {
	return Menu{
		{{Label: "👥 Показать записавшихся", Token: events.ShowBookingsToken()}},
		{{Label: "🖼 Расписание картинкой", Token: events.ScheduleImageToken()}},
	}
}
