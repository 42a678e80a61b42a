package postgres

import (
	"context"
	"fmt"
)

// Удаление заказа каскадно уносит его замеры и алерты (ON DELETE CASCADE).
const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_name      TEXT NOT NULL,
	service_type   TEXT NOT NULL,
	sla_uptime_pct DOUBLE PRECISION NOT NULL,
	sla_latency_ms DOUBLE PRECISION NOT NULL,
	status         TEXT NOT NULL DEFAULT 'PENDING',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS metric_samples (
	id         UUID PRIMARY KEY,
	order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	ts         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	uptime_pct DOUBLE PRECISION NOT NULL,
	latency_ms DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_metric_samples_order_ts ON metric_samples(order_id, ts DESC);

CREATE TABLE IF NOT EXISTS alert_events (
	id       UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	ts       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	kind     TEXT NOT NULL,
	details  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_alert_events_order_ts ON alert_events(order_id, ts DESC);

CREATE TABLE IF NOT EXISTS operators (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'operator',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema накатывает таблицы при старте. Идемпотентно.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to ensure schema: %w", err)
	}
	return nil
}
