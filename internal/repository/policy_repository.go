package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

// PolicyRepository handles persistence for privacy toggles.
type PolicyRepository interface {
	ListAll(ctx context.Context) ([]domain.PolicyToggle, error)
	Upsert(ctx context.Context, toggle domain.PolicyToggle) error
}

type policyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository instantiates the repository.
func NewPolicyRepository(pool *pgxpool.Pool) PolicyRepository {
	return &policyRepository{pool: pool}
}

func (r *policyRepository) ListAll(ctx context.Context) ([]domain.PolicyToggle, error) {
	const query = `SELECT key, is_enabled, description FROM privacy_settings`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	toggles := []domain.PolicyToggle{}
	for rows.Next() {
		var toggle domain.PolicyToggle
		if err := rows.Scan(&toggle.Key, &toggle.IsEnabled, &toggle.Description); err != nil {
			return nil, err
		}
		toggles = append(toggles, toggle)
	}
	return toggles, rows.Err()
}

func (r *policyRepository) Upsert(ctx context.Context, toggle domain.PolicyToggle) error {
	const query = `
        INSERT INTO privacy_settings (key, is_enabled, description, updated_at)
        VALUES ($1,$2,$3,NOW())
        ON CONFLICT (key) DO UPDATE
        SET is_enabled=EXCLUDED.is_enabled, description=EXCLUDED.description, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, toggle.Key, toggle.IsEnabled, toggle.Description)
	return err
}
