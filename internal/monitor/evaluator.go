package monitor

import (
	"strconv"
	"strings"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// DefaultWindow — сколько последних замеров участвует в оценке.
// Пока любой из них нарушает порог, заказ остается BREACHED:
// это осознанный гистерезис, а не баг.
const DefaultWindow = 5

// Evaluate сравнивает окно замеров с порогами заказа и возвращает вердикт.
// recent должен быть отсортирован от новых к старым; пустое окно — PENDING.
// Чистая функция: никаких сайд-эффектов, одинаковый вход — одинаковый выход.
func Evaluate(order *domain.Order, recent []domain.MetricSample) (domain.OrderStatus, string) {
	if len(recent) == 0 {
		return domain.StatusPending, ""
	}

	var reasons []string
	for _, m := range recent {
		// Сравнения строгие: ровно на пороге — еще не нарушение
		if m.UptimePct < order.SLAUptimePct {
			reasons = append(reasons,
				"uptime "+formatMetric(m.UptimePct)+"% < "+formatMetric(order.SLAUptimePct)+"%")
		}
		if m.LatencyMs > order.SLALatencyMs {
			reasons = append(reasons,
				"latency "+formatMetric(m.LatencyMs)+"ms > "+formatMetric(order.SLALatencyMs)+"ms")
		}
	}

	if len(reasons) > 0 {
		return domain.StatusBreached, strings.Join(reasons, "; ")
	}
	return domain.StatusOK, ""
}

// formatMetric печатает float без хвостовых нулей, но минимум с одним
// знаком после точки: 95 -> "95.0", 95.25 -> "95.25".
func formatMetric(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
