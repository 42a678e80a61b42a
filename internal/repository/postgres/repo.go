package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo — единая точка доступа к PostgreSQL.
// Методы разнесены по файлам: заказы, замеры, алерты, статистика, операторы.
type Repo struct {
	pool *pgxpool.Pool
}

// New создает пул соединений. Доступность базы проверяется отдельно через Ping.
func New(ctx context.Context, url string, maxConns, minConns int32) (*Repo, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid connection string: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	return &Repo{pool: pool}, nil
}

// Ping проверяет доступность базы при старте
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Close() {
	r.pool.Close()
}
