package repositories

import (
	"context"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
)

type RecipeRepository interface {
	BulkCreate(ctx context.Context, recipes []*models.Recipe) error
	Create(ctx context.Context, recipe *models.Recipe) error
	// GetByIDs returns the recipes in the order of ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type UserRepository interface {
	BulkCreate(ctx context.Context, users []*models.User) error
	Create(ctx context.Context, user *models.User) error
	GetAll(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type RotationStateRepository interface {
	// Get returns nil, nil when the user has no stored state yet.
	Get(ctx context.Context, userID string) (*models.RotationState, error)
	Save(ctx context.Context, userID string, state *models.RotationState) error
}

type MealPlanRepository interface {
	Save(ctx context.Context, planID, userID string, plan *models.MultiWeekPlan) error
	// SaveWithRotation stores the plan and the user's rotation state together.
	// Either both are written or neither is.
	SaveWithRotation(ctx context.Context, planID, userID string, plan *models.MultiWeekPlan, state *models.RotationState) error
	// GetWeek returns the most recently saved plan week for the user, or nil, nil.
	GetWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeekPlan, error)
}
