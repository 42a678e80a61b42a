package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// CreateOrder сохраняет новый заказ.
// id/created_at/status генерирует база, RETURNING отдает их за один проход.
func (r *Repo) CreateOrder(ctx context.Context, o *domain.Order) error {
	query := `
		INSERT INTO orders (user_name, service_type, sla_uptime_pct, sla_latency_ms, status)
		VALUES ($1, $2, $3, $4, 'PENDING')
		RETURNING id, status, created_at`

	err := r.pool.QueryRow(ctx, query,
		o.UserName, o.ServiceType, o.SLAUptimePct, o.SLALatencyMs,
	).Scan(&o.ID, &o.Status, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to create order: %w", err)
	}
	return nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_name, service_type, sla_uptime_pct, sla_latency_ms, status, created_at
		FROM orders
		WHERE id = $1`

	o := &domain.Order{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserName, &o.ServiceType, &o.SLAUptimePct, &o.SLALatencyMs, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Возвращаем nil для 404 в хендлере
		}
		return nil, fmt.Errorf("postgres: failed to get order: %w", err)
	}
	return o, nil
}

// ListOrders возвращает все заказы, свежие первыми.
func (r *Repo) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, user_name, service_type, sla_uptime_pct, sla_latency_ms, status, created_at
		FROM orders
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query orders: %w", err)
	}
	defer rows.Close()

	// Инициализируем пустой слайс, чтобы в JSON был [] вместо null
	results := make([]*domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.UserName, &o.ServiceType, &o.SLAUptimePct, &o.SLALatencyMs, &o.Status, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan order: %w", err)
		}
		results = append(results, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}
	return results, nil
}

// UpdateOrderStatus выставляет производный статус после оценки окна.
func (r *Repo) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("postgres: failed to update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("postgres: order %s not found", id)
	}
	return nil
}
