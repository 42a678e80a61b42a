package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Сколько уведомлений реально ушло
	Delivered prometheus.Counter

	// Сбои доставки (после всех ретраев) и сброшенные при переполнении очереди
	Failed  prometheus.Counter
	Dropped prometheus.Counter

	// Saturation: заполненность очереди диспетчера (backpressure)
	QueueFill prometheus.Gauge

	// Состояние Circuit Breaker транспорта (0 - ок, 1 - выбило)
	BreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		Delivered: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "slaguard_notify_delivered_total",
			Help: "Total number of successfully delivered notifications.",
		}),
		Failed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "slaguard_notify_failed_total",
			Help: "Total number of notification deliveries that failed for good.",
		}),
		Dropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "slaguard_notify_dropped_total",
			Help: "Total number of notifications shed due to a full queue.",
		}),
		QueueFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "slaguard_notify_queue_utilization",
			Help: "Current number of notifications waiting in the dispatcher queue.",
		}),
		BreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "slaguard_notify_breaker_state",
			Help: "Current state of the delivery circuit breaker (0=closed, 1=open).",
		}),
	}
}
