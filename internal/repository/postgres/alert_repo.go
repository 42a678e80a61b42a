package postgres

import (
	"context"
	"fmt"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// InsertAlert фиксирует событие перехода. Записи никогда не мутируются.
func (r *Repo) InsertAlert(ctx context.Context, a *domain.AlertEvent) error {
	query := `
		INSERT INTO alert_events (id, order_id, ts, kind, details)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, a.ID, a.OrderID, a.Timestamp, string(a.Kind), a.Details)
	if err != nil {
		return fmt.Errorf("postgres: failed to insert alert: %w", err)
	}
	return nil
}

// ListAlerts — алерты заказа, свежие первыми (порядок отображения на фронте).
func (r *Repo) ListAlerts(ctx context.Context, orderID string) ([]domain.AlertEvent, error) {
	query := `
		SELECT id, order_id, ts, kind, details
		FROM alert_events
		WHERE order_id = $1
		ORDER BY ts DESC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query alerts: %w", err)
	}
	defer rows.Close()

	results := make([]domain.AlertEvent, 0)
	for rows.Next() {
		var a domain.AlertEvent
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Timestamp, &a.Kind, &a.Details); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan alert: %w", err)
		}
		results = append(results, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}
	return results, nil
}
