package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/events"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/state"
	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"github.com/vkarpenko/dance-lessons-bot/internal/service"
	"go.uber.org/zap"
)

// fakeMessenger записывает исходящие сообщения
type fakeMessenger struct {
	texts    []string
	menus    []Menu
	photos   [][]byte
	captions []string
}

func (f *fakeMessenger) SendText(ctx context.Context, userID int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendMenu(ctx context.Context, userID int64, text string, menu Menu) error {
	f.texts = append(f.texts, text)
	f.menus = append(f.menus, menu)
	return nil
}

func (f *fakeMessenger) SendPhoto(ctx context.Context, userID int64, caption string, png []byte) error {
	f.captions = append(f.captions, caption)
	f.photos = append(f.photos, png)
	return nil
}

func (f *fakeMessenger) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.texts)
	return f.texts[len(f.texts)-1]
}

// fakeLedger подменяемые поведения через поля-функции
type fakeLedger struct {
	slotsByDay         func(day model.Weekday) ([]*model.ScheduleSlot, error)
	reserve            func(userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error)
	cancel             func(publicID uuid.UUID, userID int64) (*model.Reservation, error)
	reservationsByUser func(userID int64) ([]*model.Reservation, error)
	allReservations    func() ([]*model.Reservation, error)
}

func (f *fakeLedger) SlotsByDay(ctx context.Context, day model.Weekday) ([]*model.ScheduleSlot, error) {
	if f.slotsByDay == nil {
		return nil, nil
	}
	return f.slotsByDay(day)
}

func (f *fakeLedger) Reserve(ctx context.Context, userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error) {
	if f.reserve == nil {
		return nil, service.ErrSlotNotFound
	}
	return f.reserve(userID, key, name, phone)
}

func (f *fakeLedger) Cancel(ctx context.Context, publicID uuid.UUID, userID int64) (*model.Reservation, error) {
	if f.cancel == nil {
		return nil, service.ErrReservationNotFound
	}
	return f.cancel(publicID, userID)
}

func (f *fakeLedger) ReservationsByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	if f.reservationsByUser == nil {
		return nil, nil
	}
	return f.reservationsByUser(userID)
}

func (f *fakeLedger) AllReservations(ctx context.Context) ([]*model.Reservation, error) {
	if f.allReservations == nil {
		return nil, nil
	}
	return f.allReservations()
}

const (
	testUser  int64 = 100
	testAdmin int64 = 777
)

func newTestController(ledger *fakeLedger) (*Controller, *fakeMessenger, *state.Manager) {
	msg := &fakeMessenger{}
	sessions := state.NewManager(30*time.Minute, zap.NewNop())
	c := NewController(sessions, ledger, msg, testAdmin, zap.NewNop())
	return c, msg, sessions
}

func mondaySlots() []*model.ScheduleSlot {
	return []*model.ScheduleSlot{
		{Day: model.Monday, StartTime: "20:00", LessonType: "STRIP 0/1", Instructor: "Ксения Петрушина", MaxCapacity: 8, BookedCount: 3},
		{Day: model.Monday, StartTime: "21:00", LessonType: "STRETCHING", Instructor: "Ксения Петрушина", MaxCapacity: 8, BookedCount: 8},
	}
}

func TestStartShowsDayMenu(t *testing.T) {
	ctx := context.Background()
	c, msg, sessions := newTestController(&fakeLedger{})

	c.Start(ctx, testUser)

	s, ok := sessions.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, state.StepAwaitingDay, s.Step)

	assert.Contains(t, msg.lastText(t), "Добро пожаловать")
	require.Len(t, msg.menus, 1)

	// Шесть дней плюс ряд отмены/моих записей
	menu := msg.menus[0]
	require.Len(t, menu, 3)
	assert.Equal(t, "Понедельник", menu[0][0].Label)
	assert.Equal(t, events.DayToken(model.Monday), menu[0][0].Token)
	assert.Equal(t, "Суббота", menu[1][2].Label)
}

func TestDaySelectedShowsSlots(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) {
			assert.Equal(t, model.Monday, day)
			return mondaySlots(), nil
		},
	}
	c, msg, sessions := newTestController(ledger)
	c.Start(ctx, testUser)

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})

	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingSlot, s.Step)
	assert.Equal(t, model.Monday, s.Day)

	assert.Contains(t, msg.lastText(t), "Понедельник")

	menu := msg.menus[len(msg.menus)-1]
	require.Len(t, menu, 3) // два слота + "Назад"
	assert.Contains(t, menu[0][0].Label, "Свободно: 5 мест")
	assert.Equal(t, events.SlotToken("20:00", "STRIP 0/1"), menu[0][0].Token)
	assert.Contains(t, menu[1][0].Label, "Свободно: 0 мест")
	assert.Equal(t, events.BackToDaysToken(), menu[2][0].Token)
}

func TestDaySelectedLedgerError(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) {
			return nil, assert.AnError
		},
	}
	c, msg, sessions := newTestController(ledger)
	c.Start(ctx, testUser)

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Friday})

	// Выбор дня отброшен, пользователь остаётся на шаге выбора дня
	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingDay, s.Step)
	assert.False(t, s.Day.Valid())
	assert.Equal(t, "Произошла ошибка. Пожалуйста, попробуйте снова.", msg.lastText(t))
}

func TestDaySelectedEmptyDay(t *testing.T) {
	ctx := context.Background()
	c, msg, sessions := newTestController(&fakeLedger{})
	c.Start(ctx, testUser)

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Thursday})

	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingDay, s.Step)
	assert.Contains(t, msg.lastText(t), "На этот день занятий нет")
}

func TestSlotSelectedAsksName(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) { return mondaySlots(), nil },
	}
	c, msg, sessions := newTestController(ledger)
	c.Start(ctx, testUser)
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindSlotSelected, StartTime: "20:00", LessonType: "STRIP 0/1"})

	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingName, s.Step)
	assert.Equal(t, "20:00", s.StartTime)
	assert.Equal(t, "STRIP 0/1", s.LessonType)
	assert.Equal(t, "Введите ваше имя:", msg.lastText(t))
}

func TestSlotSelectedWithoutDay(t *testing.T) {
	// Нажатие на старую клавиатуру слотов без выбранного дня
	ctx := context.Background()
	c, msg, sessions := newTestController(&fakeLedger{})

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindSlotSelected, StartTime: "20:00", LessonType: "STRIP 0/1"})

	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingDay, s.Step)
	assert.Equal(t, "Сначала выберите день:", msg.lastText(t))
}

func TestFullBookingFlow(t *testing.T) {
	ctx := context.Background()

	var gotKey model.SlotKey
	var gotName, gotPhone string
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) { return mondaySlots(), nil },
		reserve: func(userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error) {
			gotKey, gotName, gotPhone = key, name, phone
			return &model.Reservation{
				PublicID: uuid.New(), UserID: userID, Name: name, Phone: phone,
				Day: key.Day, StartTime: key.StartTime, LessonType: key.LessonType,
				Instructor: "Ксения Петрушина",
			}, nil
		},
	}
	c, msg, sessions := newTestController(ledger)

	c.Start(ctx, testUser)
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindSlotSelected, StartTime: "20:00", LessonType: "STRIP 0/1"})
	c.HandleText(ctx, testUser, "Аня")
	assert.Equal(t, "Введите ваш номер телефона:", msg.lastText(t))
	c.HandleText(ctx, testUser, "+7 900 000-00-01")

	assert.Equal(t, model.SlotKey{Day: model.Monday, StartTime: "20:00", LessonType: "STRIP 0/1"}, gotKey)
	assert.Equal(t, "Аня", gotName)
	assert.Equal(t, "+7 900 000-00-01", gotPhone)

	last := msg.lastText(t)
	assert.Contains(t, last, "✅ Вы успешно записаны")
	assert.Contains(t, last, "STRIP 0/1")
	assert.Contains(t, last, "Понедельник")
	assert.Contains(t, last, "/cancel_booking")

	// Диалог завершён
	_, ok := sessions.Get(testUser)
	assert.False(t, ok)
}

func TestEmptyNameAccepted(t *testing.T) {
	// Пустой текст — тоже текст: имя не валидируется
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) { return mondaySlots(), nil },
	}
	c, _, sessions := newTestController(ledger)

	c.Start(ctx, testUser)
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindSlotSelected, StartTime: "20:00", LessonType: "STRIP 0/1"})
	c.HandleText(ctx, testUser, "")

	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingPhone, s.Step)
	assert.Empty(t, s.Name)
}

func TestReserveSlotFull(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) { return mondaySlots(), nil },
		reserve: func(userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error) {
			return nil, service.ErrSlotFull
		},
	}
	c, msg, sessions := newTestController(ledger)

	c.Start(ctx, testUser)
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindSlotSelected, StartTime: "21:00", LessonType: "STRETCHING"})
	c.HandleText(ctx, testUser, "Аня")
	c.HandleText(ctx, testUser, "тел")

	assert.Equal(t, "🚫 Извините, все места на это занятие уже заняты.", msg.lastText(t))

	// Сессия очищена и при отказе
	_, ok := sessions.Get(testUser)
	assert.False(t, ok)
}

func TestReserveStorageError(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) { return mondaySlots(), nil },
		reserve: func(userID int64, key model.SlotKey, name, phone string) (*model.Reservation, error) {
			return nil, assert.AnError
		},
	}
	c, msg, _ := newTestController(ledger)

	c.Start(ctx, testUser)
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindSlotSelected, StartTime: "20:00", LessonType: "STRIP 0/1"})
	c.HandleText(ctx, testUser, "Аня")
	c.HandleText(ctx, testUser, "тел")

	assert.Equal(t, "❌ Произошла ошибка при сохранении данных. Попробуйте еще раз.", msg.lastText(t))
}

func TestIdleTextIgnored(t *testing.T) {
	ctx := context.Background()
	c, msg, _ := newTestController(&fakeLedger{})

	c.HandleText(ctx, testUser, "привет")
	assert.Empty(t, msg.texts)
}

func TestTextDuringDayStepIgnored(t *testing.T) {
	ctx := context.Background()
	c, msg, sessions := newTestController(&fakeLedger{})
	c.Start(ctx, testUser)
	sent := len(msg.texts)

	c.HandleText(ctx, testUser, "понедельник")

	assert.Len(t, msg.texts, sent)
	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingDay, s.Step)
}

func TestMyBookingsEmpty(t *testing.T) {
	ctx := context.Background()
	c, msg, _ := newTestController(&fakeLedger{})

	c.MyBookings(ctx, testUser)
	assert.Equal(t, "📜 У вас нет активных бронирований.", msg.lastText(t))
}

func TestMyBookingsList(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		reservationsByUser: func(userID int64) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{Day: model.Monday, StartTime: "20:00", LessonType: "STRIP 0/1", Instructor: "Ксения Петрушина", Name: "Аня", Phone: "тел"},
			}, nil
		},
	}
	c, msg, _ := newTestController(ledger)

	c.MyBookings(ctx, testUser)

	text := msg.lastText(t)
	assert.Contains(t, text, "📋 Ваши бронирования:")
	assert.Contains(t, text, "Понедельник")
	assert.Contains(t, text, "STRIP 0/1")
	// Телефон в пользовательском списке не показывается
	assert.NotContains(t, text, "📞")
}

func TestCancellationFlow(t *testing.T) {
	ctx := context.Background()
	target := uuid.New()
	ledger := &fakeLedger{
		reservationsByUser: func(userID int64) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{PublicID: target, Day: model.Tuesday, StartTime: "20:00", LessonType: "STRIP 1/2"},
			}, nil
		},
		cancel: func(publicID uuid.UUID, userID int64) (*model.Reservation, error) {
			assert.Equal(t, target, publicID)
			assert.Equal(t, testUser, userID)
			return &model.Reservation{Day: model.Tuesday, StartTime: "20:00", LessonType: "STRIP 1/2"}, nil
		},
	}
	c, msg, sessions := newTestController(ledger)

	c.StartCancellation(ctx, testUser)

	s, ok := sessions.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, state.StepAwaitingCancelPick, s.Step)

	menu := msg.menus[len(msg.menus)-1]
	require.Len(t, menu, 1)
	assert.Equal(t, events.CancelToken(target), menu[0][0].Token)

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindCancelReservation, ReservationID: target})

	assert.Contains(t, msg.lastText(t), "было успешно отменено")
	_, ok = sessions.Get(testUser)
	assert.False(t, ok)
}

func TestCancellationNothingToCancel(t *testing.T) {
	ctx := context.Background()
	c, msg, sessions := newTestController(&fakeLedger{})

	c.StartCancellation(ctx, testUser)

	assert.Equal(t, "🚫 У вас нет активных бронирований.", msg.lastText(t))
	_, ok := sessions.Get(testUser)
	assert.False(t, ok)
}

func TestCancelNotFound(t *testing.T) {
	ctx := context.Background()
	c, msg, _ := newTestController(&fakeLedger{})

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindCancelReservation, ReservationID: uuid.New()})
	assert.Equal(t, "Ошибка: не удалось найти ваше бронирование.", msg.lastText(t))
}

func TestAdminPanelSilentForNonAdmin(t *testing.T) {
	ctx := context.Background()
	c, msg, _ := newTestController(&fakeLedger{})

	c.AdminPanel(ctx, testUser)
	assert.Empty(t, msg.texts)

	c.AdminPanel(ctx, testAdmin)
	assert.Contains(t, msg.lastText(t), "Административная панель")
}

func TestShowAllBookingsAdminOnly(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		allReservations: func() ([]*model.Reservation, error) {
			return []*model.Reservation{
				{Day: model.Monday, StartTime: "20:00", LessonType: "STRIP 0/1", Name: "Аня", Phone: "+7 900 000-00-01"},
			}, nil
		},
	}
	c, msg, _ := newTestController(ledger)

	// Не-админ: молчание, даже без ответа об отказе
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindShowAllBookings})
	assert.Empty(t, msg.texts)

	c.HandleEvent(ctx, testAdmin, events.Event{Kind: events.KindShowAllBookings})
	text := msg.lastText(t)
	assert.Contains(t, text, "Аня")
	assert.Contains(t, text, "+7 900 000-00-01")
}

func TestShowAllBookingsEmpty(t *testing.T) {
	ctx := context.Background()
	c, msg, _ := newTestController(&fakeLedger{})

	c.HandleEvent(ctx, testAdmin, events.Event{Kind: events.KindShowAllBookings})
	assert.Equal(t, "📜 Никто ещё не записался на занятия.", msg.lastText(t))
}

func TestScheduleImageAdminOnly(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) {
			if day == model.Monday {
				return mondaySlots(), nil
			}
			return nil, nil
		},
	}
	c, msg, _ := newTestController(ledger)

	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindScheduleImage})
	assert.Empty(t, msg.photos)

	c.HandleEvent(ctx, testAdmin, events.Event{Kind: events.KindScheduleImage})
	require.Len(t, msg.photos, 1)
	assert.NotEmpty(t, msg.photos[0])
	assert.Equal(t, "🗓 Недельное расписание", msg.captions[0])
}

func TestBackToDays(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{
		slotsByDay: func(day model.Weekday) ([]*model.ScheduleSlot, error) { return mondaySlots(), nil },
	}
	c, msg, sessions := newTestController(ledger)

	c.Start(ctx, testUser)
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindDaySelected, Day: model.Monday})
	c.HandleEvent(ctx, testUser, events.Event{Kind: events.KindBackToDays})

	s, _ := sessions.Get(testUser)
	assert.Equal(t, state.StepAwaitingDay, s.Step)
	assert.Equal(t, "Вы вернулись к главному меню.", msg.lastText(t))
}
