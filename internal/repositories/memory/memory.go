// Package memory holds in-process repositories used by the demo run and in tests.
// Every write and read copies, so callers never share slices or maps with the store.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
)

type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[string]*models.Recipe
}

func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: make(map[string]*models.Recipe)}
}

func (r *RecipeRepository) BulkCreate(ctx context.Context, recipes []*models.Recipe) error {
	for _, recipe := range recipes {
		if err := r.Create(ctx, recipe); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecipeRepository) Create(_ context.Context, recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := recipe.Clone()
	r.recipes[recipe.ID] = &c
	return nil
}

func (r *RecipeRepository) GetByIDs(_ context.Context, ids []string) ([]*models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := r.recipes[id]; ok {
			c := recipe.Clone()
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *RecipeRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.recipes), nil
}

func (r *RecipeRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = make(map[string]*models.Recipe)
	return nil
}

type UserRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) BulkCreate(ctx context.Context, users []*models.User) error {
	for _, user := range users {
		if err := r.Create(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := user.Clone()
	r.users = append(r.users, &c)
	return nil
}

func (r *UserRepository) GetAll(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		c := user.Clone()
		out = append(out, &c)
	}
	return out, nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *UserRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
	return nil
}

// RotationStateRepository keeps deep copies so callers never share state with the store.
type RotationStateRepository struct {
	mu     sync.Mutex
	states map[string]*models.RotationState
}

func NewRotationStateRepository() *RotationStateRepository {
	return &RotationStateRepository{states: make(map[string]*models.RotationState)}
}

func (r *RotationStateRepository) Get(_ context.Context, userID string) (*models.RotationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[userID]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (r *RotationStateRepository) Save(_ context.Context, userID string, state *models.RotationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[userID] = state.Clone()
	return nil
}

type savedPlan struct {
	id     string
	userID string
	seq    int
	plan   models.MultiWeekPlan
}

// MealPlanRepository writes rotation state through rotations when a plan is
// saved together with it.
type MealPlanRepository struct {
	mu        sync.Mutex
	plans     []savedPlan
	rotations *RotationStateRepository
}

func NewMealPlanRepository(rotations *RotationStateRepository) *MealPlanRepository {
	return &MealPlanRepository{rotations: rotations}
}

func (r *MealPlanRepository) Save(_ context.Context, planID, userID string, plan *models.MultiWeekPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendPlan(planID, userID, plan)
	return nil
}

// SaveWithRotation holds both store locks so readers never see the plan without its state.
func (r *MealPlanRepository) SaveWithRotation(_ context.Context, planID, userID string, plan *models.MultiWeekPlan, state *models.RotationState) error {
	if r.rotations == nil {
		return errors.New("meal plan repository has no rotation store")
	}
	if state == nil {
		return errors.New("rotation state is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotations.mu.Lock()
	defer r.rotations.mu.Unlock()

	r.appendPlan(planID, userID, plan)
	r.rotations.states[userID] = state.Clone()
	return nil
}

func (r *MealPlanRepository) appendPlan(planID, userID string, plan *models.MultiWeekPlan) {
	weeks := make([]models.WeekPlan, len(plan.Weeks))
	for i, w := range plan.Weeks {
		weeks[i] = copyWeek(w)
	}
	r.plans = append(r.plans, savedPlan{
		id:     planID,
		userID: userID,
		seq:    len(r.plans),
		plan:   models.MultiWeekPlan{Weeks: weeks},
	})
}

func copyWeek(w models.WeekPlan) models.WeekPlan {
	out := models.WeekPlan{WeekStartDate: w.WeekStartDate, Assignments: make([]models.MealAssignment, len(w.Assignments))}
	for i, a := range w.Assignments {
		a.RecipeID = copyID(a.RecipeID)
		a.AccompanimentRecipeID = copyID(a.AccompanimentRecipeID)
		out.Assignments[i] = a
	}
	return out
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func (r *MealPlanRepository) GetWeek(_ context.Context, userID string, weekStart time.Time) (*models.WeekPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := make([]savedPlan, 0)
	for _, p := range r.plans {
		if p.userID == userID {
			candidates = append(candidates, p)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].seq > candidates[j].seq })

	for _, p := range candidates {
		for _, w := range p.plan.Weeks {
			if w.WeekStartDate.Equal(weekStart) {
				week := copyWeek(w)
				return &week, nil
			}
		}
	}
	return nil, nil
}

// PlanCount reports how many plans were saved for userID.
func (r *MealPlanRepository) PlanCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.plans {
		if p.userID == userID {
			n++
		}
	}
	return n
}
