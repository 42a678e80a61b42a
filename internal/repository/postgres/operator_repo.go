package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

func (r *Repo) GetOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM operators WHERE username = $1`

	op := &domain.Operator{}
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&op.ID, &op.Username, &op.PasswordHash, &op.Role, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to get operator: %w", err)
	}
	return op, nil
}

// UpsertOperator сидирует/обновляет учетку оператора (bootstrap при старте).
func (r *Repo) UpsertOperator(ctx context.Context, op *domain.Operator) error {
	query := `
		INSERT INTO operators (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    role          = EXCLUDED.role,
		    updated_at    = NOW()`

	if _, err := r.pool.Exec(ctx, query, op.Username, op.PasswordHash, op.Role); err != nil {
		return fmt.Errorf("postgres: failed to upsert operator: %w", err)
	}
	return nil
}
