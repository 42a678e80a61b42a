package notify

import (
	"context"
	"fmt"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

// Notifier — единая способность "доставить алерт". Конкретный транспорт
// (консоль, почта, вебхук) выбирается при сборке процесса, не в рантайме.
type Notifier interface {
	Deliver(ctx context.Context, evt domain.AlertEvent, order domain.Order) error
}

func renderSubject(evt domain.AlertEvent, order domain.Order) string {
	return fmt.Sprintf("SLA Alert: %s for %s", evt.Kind, order.ServiceType)
}

func renderBody(evt domain.AlertEvent, order domain.Order) string {
	return fmt.Sprintf(`SLA Notification

Order ID: %s
User: %s
Service: %s
Type: %s
Details: %s
Time: %s

Current Status: %s
`,
		evt.OrderID,
		order.UserName,
		order.ServiceType,
		evt.Kind,
		evt.Details,
		evt.Timestamp.Format("2006-01-02 15:04:05"),
		order.Status,
	)
}

// ConsoleNotifier пишет алерт в лог. Дефолтный транспорт для окружений
// без настроенной почты или вебхука.
type ConsoleNotifier struct {
	logger *zap.Logger
}

func NewConsoleNotifier(logger *zap.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger.Named("console-notifier")}
}

func (n *ConsoleNotifier) Deliver(_ context.Context, evt domain.AlertEvent, order domain.Order) error {
	n.logger.Info("alert notification",
		zap.String("order_id", evt.OrderID),
		zap.String("kind", string(evt.Kind)),
		zap.String("subject", renderSubject(evt, order)),
		zap.String("body", renderBody(evt, order)),
	)
	return nil
}
