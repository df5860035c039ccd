package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MealPlanRepository struct {
	pool *pgxpool.Pool
}

func NewMealPlanRepository(pool *pgxpool.Pool) *MealPlanRepository {
	return &MealPlanRepository{pool: pool}
}

// Save stores the plan header and bulk copies every assignment in one transaction.
func (r *MealPlanRepository) Save(ctx context.Context, planID, userID string, plan *models.MultiWeekPlan) error {
	return execTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertPlan(ctx, tx, planID, userID, plan)
	})
}

// SaveWithRotation writes the plan and upserts the rotation state in the same transaction.
func (r *MealPlanRepository) SaveWithRotation(ctx context.Context, planID, userID string, plan *models.MultiWeekPlan, state *models.RotationState) error {
	return execTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertPlan(ctx, tx, planID, userID, plan); err != nil {
			return err
		}
		return upsertRotationState(ctx, tx, userID, state)
	})
}

func insertPlan(ctx context.Context, tx pgx.Tx, planID, userID string, plan *models.MultiWeekPlan) error {
	var rows [][]interface{}
	for _, week := range plan.Weeks {
		for _, a := range week.Assignments {
			rows = append(rows, []interface{}{
				planID,
				week.WeekStartDate,
				a.DayIndex,
				string(a.MealSlot),
				a.RecipeID,
				a.AccompanimentRecipeID,
			})
		}
	}

	_, err := tx.Exec(ctx,
		"INSERT INTO meal_plans (id, user_id, week_count, created_at) VALUES ($1, $2, $3, $4)",
		planID, userID, len(plan.Weeks), time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"meal_assignments"},
		[]string{"plan_id", "week_start", "day_index", "meal_slot", "recipe_id", "accompaniment_recipe_id"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (r *MealPlanRepository) GetWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeekPlan, error) {
	query := `
        SELECT a.day_index, a.meal_slot, a.recipe_id, a.accompaniment_recipe_id
        FROM meal_assignments a
        WHERE a.week_start = $2
          AND a.plan_id = (
              SELECT p.id
              FROM meal_plans p
              JOIN meal_assignments x ON x.plan_id = p.id AND x.week_start = $2
              WHERE p.user_id = $1
              ORDER BY p.created_at DESC
              LIMIT 1
          )
        ORDER BY a.day_index, array_position(ARRAY['appetizer', 'main', 'dessert'], a.meal_slot)`

	rows, err := r.pool.Query(ctx, query, userID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	week := &models.WeekPlan{WeekStartDate: weekStart}
	for rows.Next() {
		var (
			a    models.MealAssignment
			slot string
		)
		if err := rows.Scan(&a.DayIndex, &slot, &a.RecipeID, &a.AccompanimentRecipeID); err != nil {
			return nil, err
		}
		a.MealSlot = models.MealSlot(slot)
		week.Assignments = append(week.Assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(week.Assignments) == 0 {
		return nil, nil
	}
	return week, nil
}
