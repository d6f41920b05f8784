package state

import (
	"context"
	"sync"
	"time"

	"github.com/vkarpenko/dance-lessons-bot/internal/model"
	"go.uber.org/zap"
)

// Step текущий шаг диалога пользователя
type Step string

const (
	StepNone               Step = "" // Нет активного диалога
	StepAwaitingDay        Step = "awaiting_day"
	StepAwaitingSlot       Step = "awaiting_slot"
	StepAwaitingName       Step = "awaiting_name"
	StepAwaitingPhone      Step = "awaiting_phone"
	StepAwaitingCancelPick Step = "awaiting_cancel_pick"
)

// Session накопленные данные многошагового диалога одного пользователя
type Session struct {
	Step       Step
	Day        model.Weekday
	StartTime  string
	LessonType string
	Name       string
	Phone      string
	UpdatedAt  time.Time
}

// maxSessions верхняя граница хранимых сессий. При переполнении
// вытесняется самая давняя.
const maxSessions = 10000

// Manager хранит сессии диалогов, по одной на пользователя.
// Брошенные сессии вычищаются по TTL фоновым циклом Run.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
	logger   *zap.Logger
}

// NewManager создаёт новый менеджер сессий
func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Get возвращает копию сессии пользователя
func (m *Manager) Get(userID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[userID]; ok {
		return *s, true
	}
	return Session{}, false
}

// Put сохраняет сессию пользователя, обновляя отметку активности
func (m *Manager) Put(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[userID]; !exists && len(m.sessions) >= maxSessions {
		m.evictOldestLocked()
	}

	s.UpdatedAt = time.Now()
	m.sessions[userID] = &s
}

// Clear удаляет сессию пользователя
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// Len возвращает число активных сессий
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Run периодически вычищает брошенные сессии. Блокирует до отмены ctx,
// запускать в отдельной горутине.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := m.purge(time.Now().Add(-m.ttl))
			if removed > 0 {
				m.logger.Info("Expired dialogue sessions removed", zap.Int("count", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}

// purge удаляет сессии, не обновлявшиеся с момента cutoff
func (m *Manager) purge(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) evictOldestLocked() {
	var oldestID int64
	var oldestAt time.Time
	first := true

	for id, s := range m.sessions {
		if first || s.UpdatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = s.UpdatedAt
			first = false
		}
	}

	if !first {
		delete(m.sessions, oldestID)
	}
}
