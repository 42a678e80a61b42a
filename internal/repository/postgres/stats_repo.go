package postgres

import (
	"context"
	"fmt"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// GetDashboardStats собирает агрегат для операторской панели.
func (r *Repo) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	d := &domain.DashboardStats{}

	// 1. Распределение заказов по статусам
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'OK'),
			COUNT(*) FILTER (WHERE status = 'BREACHED')
		FROM orders`).Scan(
		&d.Orders.Total, &d.Orders.Pending, &d.Orders.OK, &d.Orders.Breached,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect order stats: %w", err)
	}

	// 2. Алерты: всего по видам и за последний час
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE ts > NOW() - INTERVAL '60 minutes'),
			COUNT(*) FILTER (WHERE kind = 'SLA_BREACH'),
			COUNT(*) FILTER (WHERE kind = 'RECOVERY')
		FROM alert_events`).Scan(
		&d.Alerts.LastHour, &d.Alerts.Breaches, &d.Alerts.Recoveries,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect alert stats: %w", err)
	}

	// 3. Здоровье по замерам за последний час
	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(uptime_pct), 0),
			COALESCE(AVG(latency_ms), 0)
		FROM metric_samples
		WHERE ts > NOW() - INTERVAL '60 minutes'`).Scan(
		&d.Health.AvgUptimePct, &d.Health.AvgLatencyMs,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect health stats: %w", err)
	}

	if d.Orders.Total > 0 {
		d.Health.BreachRatio = float64(d.Orders.Breached) / float64(d.Orders.Total)
	}
	return d, nil
}
