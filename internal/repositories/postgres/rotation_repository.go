package postgres

import (
	"context"
	"errors"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RotationStateRepository stores one rotation state per user as JSONB.
type RotationStateRepository struct {
	pool *pgxpool.Pool
}

func NewRotationStateRepository(pool *pgxpool.Pool) *RotationStateRepository {
	return &RotationStateRepository{pool: pool}
}

func (r *RotationStateRepository) Get(ctx context.Context, userID string) (*models.RotationState, error) {
	var state models.RotationState
	err := r.pool.QueryRow(ctx, "SELECT state FROM rotation_states WHERE user_id = $1", userID).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

func (r *RotationStateRepository) Save(ctx context.Context, userID string, state *models.RotationState) error {
	return upsertRotationState(ctx, r.pool, userID, state)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

func upsertRotationState(ctx context.Context, db execer, userID string, state *models.RotationState) error {
	if state == nil {
		return errors.New("rotation state is nil")
	}
	query := `
        INSERT INTO rotation_states (user_id, state, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
	_, err := db.Exec(ctx, query, userID, state)
	return err
}
