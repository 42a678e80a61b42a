package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"golang.org/x/time/rate"
)

// Reliability оборачивает внешний транспорт доставки:
// rate limiter -> circuit breaker -> ретраи с бэкоффом и таймаутом попытки.
// Повторов за пределами одного Deliver нет: семантика at-most-once.
type Reliability struct {
	next    Notifier
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	metrics *Metrics

	attempts       uint
	retryDelay     time.Duration
	attemptTimeout time.Duration
}

func NewReliability(next Notifier, rps float64, burst int, metrics *Metrics) *Reliability {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "slaguard-notifier",
		Timeout: 30 * time.Second, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся (блокируем трафик)
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(_ string, _ gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				metrics.BreakerState.Set(1)
			} else {
				metrics.BreakerState.Set(0)
			}
		},
	})

	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 5
	}

	return &Reliability{
		next:           next,
		cb:             cb,
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		metrics:        metrics,
		attempts:       3,
		retryDelay:     100 * time.Millisecond,
		attemptTimeout: 10 * time.Second,
	}
}

func (w *Reliability) Deliver(ctx context.Context, evt domain.AlertEvent, order domain.Order) error {
	// 1. Rate Limiter
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	// 2. Circuit Breaker
	_, err := w.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(w.attempts),
			retry.Delay(w.retryDelay),
		)

		retryErr := r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, w.attemptTimeout)
			defer cancel()

			return w.next.Deliver(tCtx, evt, order)
		})

		return nil, retryErr
	})

	return err
}
