package postgres

import (
	"context"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) BulkCreate(ctx context.Context, users []*models.User) error {
	return execTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, user := range users {
			if err := insertUser(ctx, tx, user); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return execTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertUser(ctx, tx, user)
	})
}

func insertUser(ctx context.Context, tx pgx.Tx, user *models.User) error {
	stmt := `
        INSERT INTO users (id, name, join_date, preferences)
        VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, stmt, user.ID, user.Name, user.JoinDate, user.Preferences); err != nil {
		return err
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"user_favorites"},
		[]string{"user_id", "recipe_id", "position"},
		pgx.CopyFromSlice(len(user.FavoriteRecipeIDs), func(i int) ([]interface{}, error) {
			return []interface{}{user.ID, user.FavoriteRecipeIDs[i], i}, nil
		}),
	)
	return err
}

// GetAll returns users with their favorites in the order they were saved.
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `
        SELECT
            u.id, u.name, u.join_date, u.preferences,
            COALESCE(array_agg(f.recipe_id ORDER BY f.position) FILTER (WHERE f.recipe_id IS NOT NULL), '{}')
        FROM users u
        LEFT JOIN user_favorites f ON f.user_id = u.id
        GROUP BY u.id
        ORDER BY u.join_date, u.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.JoinDate,
			&user.Preferences,
			&user.FavoriteRecipeIDs,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE users CASCADE")
	return err
}
