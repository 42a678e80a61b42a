package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: сколько циклов оценки прошло и с каким вердиктом
	EvaluationsTotal *prometheus.CounterVec

	// Errors: алерты по видам (вход в нарушение / восстановление)
	AlertsTotal *prometheus.CounterVec

	// Latency: длительность полного цикла RecordSample (включая БД)
	CycleDuration prometheus.Histogram

	// Сбои отдельных заказов внутри фонового прогона
	TriggerFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		EvaluationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "slaguard_evaluations_total",
			Help: "Total number of SLA evaluations by verdict.",
		}, []string{"verdict"}),

		AlertsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "slaguard_alerts_total",
			Help: "Total number of alert events by kind.",
		}, []string{"kind"}),

		CycleDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "slaguard_record_sample_duration_seconds",
			Help:    "Histogram of full record-sample cycle latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),

		TriggerFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "slaguard_trigger_order_failures_total",
			Help: "Total number of per-order failures inside the periodic run.",
		}),
	}
}
