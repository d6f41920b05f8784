// Package render рисует недельное расписание студии картинкой для
// административной панели.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth   = 1260
	imageHeight  = 700
	headerHeight = 60
	dayPaddingX  = 10
	slotHeight   = 90
	slotPadding  = 8
	cornerRadius = 6.0
)

// Цветовая схема
var (
	bgColor       = color.RGBA{245, 246, 248, 255}
	headerColor   = color.RGBA{80, 85, 90, 255}
	gridColor     = color.RGBA{215, 218, 222, 255}
	slotFillColor = color.RGBA{209, 196, 233, 255}
	fullFillColor = color.RGBA{239, 208, 208, 255}
	slotTextColor = color.RGBA{60, 63, 68, 255}
)

// Заголовки колонок. Встроенный шрифт gg не содержит кириллицы,
// поэтому дни подписаны латиницей.
var dayLabels = map[model.Weekday]string{
	model.Monday:    "Mon",
	model.Tuesday:   "Tue",
	model.Wednesday: "Wed",
	model.Thursday:  "Thu",
	model.Friday:    "Fri",
	model.Saturday:  "Sat",
}

// WeekImage рисует сетку Пн..Сб: колонка на день, карточка на слот
// с временем, типом занятия и числом свободных мест. Возвращает PNG.
func WeekImage(slots []*model.ScheduleSlot) ([]byte, error) {
	byDay := make(map[model.Weekday][]*model.ScheduleSlot)
	for _, slot := range slots {
		byDay[slot.Day] = append(byDay[slot.Day], slot)
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	colWidth := float64(imageWidth) / float64(len(model.Weekdays))

	for i, day := range model.Weekdays {
		x := float64(i) * colWidth

		// Разделитель колонок
		if i > 0 {
			dc.SetColor(gridColor)
			dc.SetLineWidth(1)
			dc.DrawLine(x, 0, x, imageHeight)
			dc.Stroke()
		}

		dc.SetColor(headerColor)
		dc.DrawStringAnchored(dayLabels[day], x+colWidth/2, headerHeight/2, 0.5, 0.5)

		for j, slot := range byDay[day] {
			drawSlot(dc, slot, x, float64(headerHeight+j*(slotHeight+slotPadding)), colWidth)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode schedule png: %w", err)
	}

	return buf.Bytes(), nil
}

func drawSlot(dc *gg.Context, slot *model.ScheduleSlot, x, y, colWidth float64) {
	fill := slotFillColor
	if slot.FreeSeats() <= 0 {
		fill = fullFillColor
	}

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, y, colWidth-2*dayPaddingX, slotHeight, cornerRadius)
	dc.Fill()

	dc.SetColor(slotTextColor)
	textX := x + dayPaddingX + slotPadding
	dc.DrawString(slot.StartTime, textX, y+22)
	dc.DrawString(slot.LessonType, textX, y+44)
	dc.DrawString(fmt.Sprintf("free: %d/%d", slot.FreeSeats(), slot.MaxCapacity), textX, y+66)
}
