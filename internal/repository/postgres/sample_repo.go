package postgres

import (
	"context"
	"fmt"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// InsertSample добавляет замер. Замеры append-only, апдейтов по ним нет.
func (r *Repo) InsertSample(ctx context.Context, s *domain.MetricSample) error {
	query := `
		INSERT INTO metric_samples (id, order_id, ts, uptime_pct, latency_ms)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, s.ID, s.OrderID, s.Timestamp, s.UptimePct, s.LatencyMs)
	if err != nil {
		return fmt.Errorf("postgres: failed to insert sample: %w", err)
	}
	return nil
}

// RecentSamples отдает окно последних замеров, новые первыми.
func (r *Repo) RecentSamples(ctx context.Context, orderID string, limit int) ([]domain.MetricSample, error) {
	query := `
		SELECT id, order_id, ts, uptime_pct, latency_ms
		FROM metric_samples
		WHERE order_id = $1
		ORDER BY ts DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query recent samples: %w", err)
	}
	defer rows.Close()

	results := make([]domain.MetricSample, 0, limit)
	for rows.Next() {
		var s domain.MetricSample
		if err := rows.Scan(&s.ID, &s.OrderID, &s.Timestamp, &s.UptimePct, &s.LatencyMs); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan sample: %w", err)
		}
		results = append(results, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}
	return results, nil
}

// ListSamples — вся история замеров по возрастанию времени (для карточки заказа).
func (r *Repo) ListSamples(ctx context.Context, orderID string) ([]domain.MetricSample, error) {
	query := `
		SELECT id, order_id, ts, uptime_pct, latency_ms
		FROM metric_samples
		WHERE order_id = $1
		ORDER BY ts ASC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query samples: %w", err)
	}
	defer rows.Close()

	results := make([]domain.MetricSample, 0)
	for rows.Next() {
		var s domain.MetricSample
		if err := rows.Scan(&s.ID, &s.OrderID, &s.Timestamp, &s.UptimePct, &s.LatencyMs); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan sample: %w", err)
		}
		results = append(results, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}
	return results, nil
}
