package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics счётчики бизнес-событий бота. Nil-получатель допустим:
// все методы становятся no-op, метрики можно не включать.
type Metrics struct {
	reservationsTotal     prometheus.Counter
	cancellationsTotal    prometheus.Counter
	capacityExceededTotal prometheus.Counter
	activeSessions        prometheus.Gauge
}

// New регистрирует метрики в реестре по умолчанию
func New() *Metrics {
	return &Metrics{
		reservationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dance_bot_reservations_total",
			Help: "Successful slot reservations.",
		}),
		cancellationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dance_bot_cancellations_total",
			Help: "Successful reservation cancellations.",
		}),
		capacityExceededTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dance_bot_capacity_exceeded_total",
			Help: "Reservation attempts rejected because the slot was full.",
		}),
		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dance_bot_active_sessions",
			Help: "Dialogue sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) IncReservations() {
	if m == nil {
		return
	}
	m.reservationsTotal.Inc()
}

func (m *Metrics) IncCancellations() {
	if m == nil {
		return
	}
	m.cancellationsTotal.Inc()
}

func (m *Metrics) IncCapacityExceeded() {
	if m == nil {
		return
	}
	m.capacityExceededTotal.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// Handler возвращает HTTP-обработчик для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
