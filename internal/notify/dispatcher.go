package notify

/*
Файл dispatcher.go реализует асинхронную доставку алертов.

Движок оценки кладет событие в буферизованный канал и сразу возвращается:
задержки и сбои внешнего транспорта (почта, вебхук) не влияют на цикл
записи замера и никогда не откатывают уже закоммиченные данные.

Семантика доставки — at-most-once, best-effort:
- при переполнении очереди событие сбрасывается (Load Shedding) с записью в лог;
- ошибка доставки логируется и проглатывается, ретраев за пределами
  обертки надежности нет;
- при остановке сервиса очередь вычитывается до конца (Drain Pattern):
  закрытие входного канала — самодостаточный сигнал завершения воркера.
*/

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

type envelope struct {
	evt   domain.AlertEvent
	order domain.Order
}

type Dispatcher struct {
	ch      chan envelope
	next    Notifier
	logger  *zap.Logger
	metrics *Metrics
	wg      sync.WaitGroup

	// Атомарный флаг (0 - открыт, 1 - закрыт): защита от Enqueue после Stop
	isClosed int32
}

func NewDispatcher(next Notifier, logger *zap.Logger, metrics *Metrics, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Dispatcher{
		ch:      make(chan envelope, buffer),
		next:    next,
		logger:  logger.Named("dispatcher"),
		metrics: metrics,
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.worker()
}

// Stop «запирает» вход и ждет, пока воркер дочитает очередь.
func (d *Dispatcher) Stop() {
	atomic.StoreInt32(&d.isClosed, 1)

	// Крошечная пауза, чтобы залетевшие Enqueue успели проскочить
	time.Sleep(10 * time.Millisecond)

	d.logger.Info("stopping dispatcher: draining queue...")
	close(d.ch)
	d.wg.Wait()
	d.logger.Info("dispatcher stopped gracefully")
}

// Enqueue не блокирует вызывающего ни при каких условиях.
func (d *Dispatcher) Enqueue(evt domain.AlertEvent, order domain.Order) {
	if atomic.LoadInt32(&d.isClosed) == 1 {
		d.logger.Warn("notification dropped: dispatcher is stopping",
			zap.String("order_id", evt.OrderID))
		return
	}

	select {
	case d.ch <- envelope{evt: evt, order: order}:
		d.metrics.QueueFill.Set(float64(len(d.ch)))
	default:
		// Очередь забита — сбрасываем, данные алерта уже в базе
		d.metrics.Dropped.Inc()
		d.logger.Error("notify_queue_overflow",
			zap.String("order_id", evt.OrderID),
			zap.String("kind", string(evt.Kind)))
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for e := range d.ch {
		d.metrics.QueueFill.Set(float64(len(d.ch)))

		// Background: основной контекст процесса может быть уже закрыт
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := d.next.Deliver(ctx, e.evt, e.order)
		cancel()

		if err != nil {
			d.metrics.Failed.Inc()
			d.logger.Error("notification delivery failed",
				zap.String("order_id", e.evt.OrderID),
				zap.String("kind", string(e.evt.Kind)),
				zap.Error(err))
			continue
		}
		d.metrics.Delivered.Inc()
	}

	d.logger.Info("dispatcher worker finished")
}
