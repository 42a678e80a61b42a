package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

// OrderEnumerator — то, что циклу нужно от хранилища.
type OrderEnumerator interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// SampleRecorder — то, что циклу нужно от движка.
type SampleRecorder interface {
	RecordSample(ctx context.Context, order *domain.Order, override *domain.SampleOverride) (*domain.MetricSample, error)
}

// TriggerLoop раз в interval прогоняет оценку по всем заказам.
// Владеет своим жизненным циклом явно (Start/Stop), без глобального состояния.
type TriggerLoop struct {
	interval time.Duration
	orders   OrderEnumerator
	recorder SampleRecorder
	metrics  *Metrics
	logger   *zap.Logger

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewTriggerLoop(
	interval time.Duration,
	orders OrderEnumerator,
	recorder SampleRecorder,
	metrics *Metrics,
	logger *zap.Logger,
) *TriggerLoop {
	if interval <= 0 {
		interval = 8 * time.Second
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &TriggerLoop{
		interval: interval,
		orders:   orders,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger.Named("trigger"),
		stop:     make(chan struct{}),
	}
}

func (t *TriggerLoop) Start(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		t.logger.Info("trigger loop started", zap.Duration("interval", t.interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			case <-ticker.C:
				t.runCycle(ctx)
			}
		}
	}()
}

// Stop останавливает цикл и дожидается завершения текущего прогона.
func (t *TriggerLoop) Stop() {
	t.once.Do(func() { close(t.stop) })
	t.wg.Wait()
	t.logger.Info("trigger loop stopped")
}

// runCycle обходит все заказы. Сбой по одному заказу логируется и
// пропускается: прогон целиком не прерывается никогда.
func (t *TriggerLoop) runCycle(ctx context.Context) {
	orders, err := t.orders.ListOrders(ctx)
	if err != nil {
		t.logger.Error("failed to enumerate orders", zap.Error(err))
		return
	}

	for _, o := range orders {
		if _, err := t.recorder.RecordSample(ctx, o, nil); err != nil {
			t.metrics.TriggerFailures.Inc()
			t.logger.Error("failed to evaluate order",
				zap.String("order_id", o.ID), zap.Error(err))
		}
	}
}
