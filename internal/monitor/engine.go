package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

// Repository описывает требования движка к хранилищу.
type Repository interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	InsertSample(ctx context.Context, s *domain.MetricSample) error
	RecentSamples(ctx context.Context, orderID string, limit int) ([]domain.MetricSample, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	InsertAlert(ctx context.Context, a *domain.AlertEvent) error
}

// AlertSink принимает алерт на асинхронную доставку. Вызов не блокирует
// и ничего не возвращает: доставка best-effort и не влияет на цикл оценки.
type AlertSink interface {
	Enqueue(evt domain.AlertEvent, order domain.Order)
}

// StatusBroadcaster транслирует переходы статуса (live-дашборды, другие инстансы).
type StatusBroadcaster interface {
	PublishStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// Engine — движок переходов: замер -> окно -> вердикт -> (возможно) алерт.
type Engine struct {
	repo      Repository
	sampler   *Sampler
	window    int
	locks     *lockTable
	sink      AlertSink
	broadcast StatusBroadcaster // Опционален, nil допустим
	metrics   *Metrics
	logger    *zap.Logger
}

func NewEngine(
	repo Repository,
	sampler *Sampler,
	window int,
	sink AlertSink,
	broadcast StatusBroadcaster,
	metrics *Metrics,
	logger *zap.Logger,
) *Engine {
	if window <= 0 {
		window = DefaultWindow
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Engine{
		repo:      repo,
		sampler:   sampler,
		window:    window,
		locks:     newLockTable(),
		sink:      sink,
		broadcast: broadcast,
		metrics:   metrics,
		logger:    logger.Named("engine"),
	}
}

// RecordSampleByID — вход для ручной симуляции: сначала ищем заказ.
func (e *Engine) RecordSampleByID(ctx context.Context, orderID string, override *domain.SampleOverride) (*domain.MetricSample, error) {
	order, err := e.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return e.RecordSample(ctx, order, override)
}

// RecordSample выполняет один полный цикл по заказу:
//  1. синтез и запись замера;
//  2. выборка окна последних замеров (включая только что записанный);
//  3. вердикт оценщика и запись производного статуса;
//  4. детекция перехода по фронту: алерт только на входе в BREACHED
//     и на выходе из него, повторные вердикты событий не порождают.
//
// Вся последовательность идет под эксклюзивом заказа, а prevStatus
// перечитывается из базы уже под замком: снапшот вызывающей стороны
// (ручная симуляция, фоновый прогон) снят до захвата и мог устареть,
// пока замок держал конкурент — детекция по нему двоила бы алерты.
// Доставка уведомления и трансляция статуса замок не держат.
func (e *Engine) RecordSample(ctx context.Context, order *domain.Order, override *domain.SampleOverride) (*domain.MetricSample, error) {
	sample, changed, err := e.recordLocked(ctx, order, override)
	if err != nil {
		return nil, err
	}

	if changed && e.broadcast != nil {
		// Сигнал чисто информационный, его потеря не ломает инварианты
		if err := e.broadcast.PublishStatus(ctx, order.ID, order.Status); err != nil {
			e.logger.Warn("status signal delivery failed",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	return sample, nil
}

// recordLocked — шаги 1-4 под эксклюзивом заказа. Возвращает замер и
// признак смены статуса для трансляции за пределами замка.
func (e *Engine) recordLocked(ctx context.Context, order *domain.Order, override *domain.SampleOverride) (*domain.MetricSample, bool, error) {
	unlock := e.locks.acquire(order.ID)
	defer unlock()

	start := time.Now()
	defer func() {
		e.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	// Актуальный статус — только из базы и только под замком
	current, err := e.repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, false, fmt.Errorf("engine: failed to refresh order: %w", err)
	}
	if current == nil {
		return nil, false, domain.ErrOrderNotFound
	}
	prevStatus := current.Status

	up, lat := e.sampler.Sample(order, override)
	sample := &domain.MetricSample{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Timestamp: time.Now().UTC(),
		UptimePct: up,
		LatencyMs: lat,
	}

	if err := e.repo.InsertSample(ctx, sample); err != nil {
		return nil, false, fmt.Errorf("engine: failed to persist sample: %w", err)
	}

	recent, err := e.repo.RecentSamples(ctx, order.ID, e.window)
	if err != nil {
		return nil, false, fmt.Errorf("engine: failed to load sample window: %w", err)
	}

	verdict, reason := Evaluate(order, recent)
	e.metrics.EvaluationsTotal.WithLabelValues(string(verdict)).Inc()

	if err := e.repo.UpdateOrderStatus(ctx, order.ID, verdict); err != nil {
		return nil, false, fmt.Errorf("engine: failed to update order status: %w", err)
	}
	order.Status = verdict

	var evt *domain.AlertEvent
	switch {
	case verdict == domain.StatusBreached && prevStatus != domain.StatusBreached:
		evt = &domain.AlertEvent{Kind: domain.AlertSLABreach, Details: reason}
	case verdict == domain.StatusOK && prevStatus == domain.StatusBreached:
		evt = &domain.AlertEvent{Kind: domain.AlertRecovery, Details: "Service recovered within SLA"}
	}

	if evt != nil {
		evt.ID = uuid.New().String()
		evt.OrderID = order.ID
		evt.Timestamp = time.Now().UTC()

		if err := e.repo.InsertAlert(ctx, evt); err != nil {
			return nil, false, fmt.Errorf("engine: failed to persist alert: %w", err)
		}
		e.metrics.AlertsTotal.WithLabelValues(string(evt.Kind)).Inc()
		e.logger.Info("alert raised",
			zap.String("order_id", order.ID),
			zap.String("kind", string(evt.Kind)),
			zap.String("details", evt.Details))

		if e.sink != nil {
			e.sink.Enqueue(*evt, *order)
		}
	}

	return sample, verdict != prevStatus, nil
}
