package dialog

import (
	"fmt"
	"strings"

	"github.com/vkarpenko/dance-lessons-bot/internal/model"
)

const listSeparator = "------------------------------------\n\n"

// formatUserBookings список записей пользователя без контактных данных
func formatUserBookings(reservations []*model.Reservation) string {
	var sb strings.Builder
	sb.WriteString("📋 Ваши бронирования:\n\n")

	for _, res := range reservations {
		fmt.Fprintf(&sb,
			"🗓️ День: %s\n"+
				"🕒 Время: %s\n"+
				"🎓 Тип занятия: %s\n"+
				"👩‍🏫 Инструктор: %s\n"+
				listSeparator,
			res.Day, res.StartTime, res.LessonType, res.Instructor)
	}

	return sb.String()
}

// formatAdminBookings список всех записавшихся с именем и телефоном
func formatAdminBookings(reservations []*model.Reservation) string {
	var sb strings.Builder
	sb.WriteString("📋 Список записавшихся клиентов:\n\n")

	for _, res := range reservations {
		fmt.Fprintf(&sb,
			"🗓️ День: %s\n"+
				"🕒 Время: %s\n"+
				"🎓 Тип занятия: %s\n"+
				"👩‍🏫 Инструктор: %s\n"+
				"🧑‍🎓 Имя: %s\n"+
				"📞 Телефон: %s\n"+
				listSeparator,
			res.Day, res.StartTime, res.LessonType, res.Instructor, res.Name, res.Phone)
	}

	return sb.String()
}
