// Package runner drives the planner for stored users: it loads their favorites
// and rotation state, generates plans, persists the results and emits rows to
// the configured output destination.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/chrisdamba/mealplanner/internal/factories"
	"github.com/chrisdamba/mealplanner/internal/lock"
	"github.com/chrisdamba/mealplanner/internal/metrics"
	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/chrisdamba/mealplanner/internal/planner"
	"github.com/chrisdamba/mealplanner/internal/repositories"
	"github.com/chrisdamba/mealplanner/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ErrOutput marks failures writing to the output destination.
var ErrOutput = errors.New("output destination failed")

const minCatalogSize = 50

// Dependencies are the collaborators of a Runner. Nil fields get in-memory or
// no-op defaults, and a nil Output is chosen from the config.
type Dependencies struct {
	Recipes   repositories.RecipeRepository
	Users     repositories.UserRepository
	Rotations repositories.RotationStateRepository
	Plans     repositories.MealPlanRepository
	Output    OutputDestination
	Locker    lock.Locker
	Metrics   *metrics.Metrics
	Progress  io.Writer
	Now       func() time.Time
}

type Runner struct {
	cfg       *models.Config
	logger    *zap.Logger
	recipes   repositories.RecipeRepository
	users     repositories.UserRepository
	rotations repositories.RotationStateRepository
	plans     repositories.MealPlanRepository
	output    OutputDestination
	locker    lock.Locker
	metrics   *metrics.Metrics
	progress  io.Writer
	now       func() time.Time
}

type PlanResult struct {
	PlanID        string
	Plan          *models.MultiWeekPlan
	ShoppingLists []models.ShoppingList
	Duration      time.Duration
}

func NewRunner(ctx context.Context, cfg *models.Config, logger *zap.Logger, deps Dependencies) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		cfg:       cfg,
		logger:    logger,
		recipes:   deps.Recipes,
		users:     deps.Users,
		rotations: deps.Rotations,
		plans:     deps.Plans,
		output:    deps.Output,
		locker:    deps.Locker,
		metrics:   deps.Metrics,
		progress:  deps.Progress,
		now:       deps.Now,
	}

	if r.recipes == nil {
		r.recipes = memory.NewRecipeRepository()
	}
	if r.users == nil {
		r.users = memory.NewUserRepository()
	}
	if r.rotations == nil && r.plans == nil {
		rotations := memory.NewRotationStateRepository()
		r.rotations, r.plans = rotations, memory.NewMealPlanRepository(rotations)
	}
	if r.rotations == nil || r.plans == nil {
		return nil, errors.New("rotation and meal plan repositories must be provided together")
	}
	if r.locker == nil {
		r.locker = lock.NoopLocker{}
	}
	if r.metrics == nil {
		r.metrics = metrics.New()
	}
	if r.progress == nil {
		r.progress = os.Stderr
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.output == nil {
		output, err := determineOutputDestination(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create output destination: %w", err)
		}
		r.output = output
	}
	return r, nil
}

func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// Run seeds synthetic users into an empty store, then plans every stored user.
// A failure for one user is logged and does not stop the batch.
func (r *Runner) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := r.output.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrOutput, cerr))
		}
	}()

	if err := r.seed(ctx); err != nil {
		return err
	}

	users, err := r.users.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	bar := progressbar.NewOptions(len(users),
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionSetDescription("Planning meals"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)

	var planned, failed int
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.PlanForUser(ctx, user, r.cfg.Weeks); err != nil {
			failed++
			r.logger.Warn("plan generation failed",
				zap.String("user_id", user.ID),
				zap.Error(err))
		} else {
			planned++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	r.logger.Info("meal planning finished",
		zap.Int("users", len(users)),
		zap.Int("planned", planned),
		zap.Int("failed", failed),
		zap.Int("weeks", r.cfg.Weeks))
	return nil
}

// PlanForUser generates weeks of plans for one user and records the outcome.
// The user's lock is held for the whole load-generate-save sequence.
func (r *Runner) PlanForUser(ctx context.Context, user *models.User, weeks int) (result *PlanResult, err error) {
	start := r.now()
	defer func() {
		if err != nil {
			r.metrics.ObserveFailure(failureReason(err))
		}
	}()

	release, err := r.locker.Acquire(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	defer release()

	prefs := user.Preferences
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}

	favorites, err := r.recipes.GetByIDs(ctx, user.FavoriteRecipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites for %s: %w", user.ID, err)
	}
	recipes := make([]models.Recipe, 0, len(favorites))
	for _, f := range favorites {
		recipes = append(recipes, *f)
	}

	state, err := r.rotations.Get(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rotation state for %s: %w", user.ID, err)
	}
	if state == nil {
		state = models.NewRotationState()
	}

	opts := []planner.Option{
		planner.StartingFrom(r.cfg.StartDate),
		planner.WithRand(r.userRand(user.ID)),
	}
	if r.cfg.MinMainCourses > 0 {
		opts = append(opts, planner.RequireMinimum(models.CourseMain, r.cfg.MinMainCourses))
	}

	plan, err := planner.GenerateMultiWeekPlans(recipes, prefs, state, weeks, opts...)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}

	planID := uuid.NewString()
	if err := r.plans.SaveWithRotation(ctx, planID, user.ID, plan, plan.RotationState); err != nil {
		return nil, fmt.Errorf("failed to save plan %s for %s: %w", planID, user.ID, err)
	}

	lookup := planner.LookupFromRecipes(recipes)
	lists := make([]models.ShoppingList, 0, len(plan.Weeks))
	for _, week := range plan.Weeks {
		lists = append(lists, planner.GenerateShoppingListForWeek(week, lookup))
	}

	took := r.now().Sub(start)
	if err := r.emit(planID, user.ID, plan, lists, recipes, took); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	r.metrics.ObservePlan(plan, took)
	r.logger.Info("plan generated",
		zap.String("user_id", user.ID),
		zap.String("plan_id", planID),
		zap.Int("weeks", len(plan.Weeks)),
		zap.Int("cycle", plan.RotationState.CycleNumber),
		zap.Duration("duration", took))

	return &PlanResult{PlanID: planID, Plan: plan, ShoppingLists: lists, Duration: took}, nil
}

func (r *Runner) emit(planID, userID string, plan *models.MultiWeekPlan, lists []models.ShoppingList, recipes []models.Recipe, took time.Duration) error {
	now := r.now()

	titles := make(map[string]string, len(recipes))
	for _, recipe := range recipes {
		titles[recipe.ID] = recipe.Title
	}

	for _, row := range assignmentRows(planID, userID, plan, titles, now) {
		if err := r.writeRow(models.TopicMealAssignments, row); err != nil {
			return err
		}
	}
	for _, list := range lists {
		for _, row := range shoppingRows(planID, userID, list, now) {
			if err := r.writeRow(models.TopicShoppingItems, row); err != nil {
				return err
			}
		}
	}

	empty := 0
	for _, week := range plan.Weeks {
		for _, n := range week.EmptySlots() {
			empty += n
		}
	}
	event := PlanGeneratedEvent{
		Timestamp:   now.Unix(),
		PlanID:      planID,
		UserID:      userID,
		Weeks:       int32(len(plan.Weeks)),
		EmptySlots:  int32(empty),
		CycleNumber: int32(plan.RotationState.CycleNumber),
		DurationMs:  took.Milliseconds(),
	}
	if len(plan.Weeks) > 0 {
		event.WeekStart = plan.Weeks[0].WeekStartDate.Format(dateLayout)
	}
	return r.writeRow(models.TopicPlanGenerated, event)
}

func (r *Runner) writeRow(topic string, row interface{}) error {
	msg, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal %s row: %w", topic, err)
	}
	return r.output.WriteMessage(topic, msg)
}

// userRand derives a per-user source from the configured seed, so a user's
// plan does not depend on which other users run in the same batch.
func (r *Runner) userRand(userID string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	return rand.New(rand.NewSource(int64(r.cfg.Seed) ^ int64(h.Sum64())))
}

// seed fills an empty store with a synthetic catalog and users.
func (r *Runner) seed(ctx context.Context) error {
	count, err := r.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 || r.cfg.Users <= 0 {
		return nil
	}

	catalogSize := r.cfg.FavoritesPerUser * 3
	if catalogSize < minCatalogSize {
		catalogSize = minCatalogSize
	}

	catalog := factories.NewRecipeFactory(int64(r.cfg.Seed)).CreateCatalog(catalogSize)
	recipes := make([]*models.Recipe, len(catalog))
	for i := range catalog {
		recipes[i] = &catalog[i]
	}
	if err := r.recipes.BulkCreate(ctx, recipes); err != nil {
		return fmt.Errorf("failed to seed recipes: %w", err)
	}

	userFactory := factories.NewUserFactory(int64(r.cfg.Seed) + 1)
	users := make([]*models.User, 0, r.cfg.Users)
	for i := 0; i < r.cfg.Users; i++ {
		user := userFactory.CreateUser(r.cfg, catalog)
		users = append(users, &user)
	}
	if err := r.users.BulkCreate(ctx, users); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	r.logger.Info("seeded synthetic data",
		zap.Int("recipes", len(recipes)),
		zap.Int("users", len(users)))
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, lock.ErrLockHeld):
		return metrics.ReasonLockHeld
	case errors.Is(err, ErrOutput):
		return metrics.ReasonOutput
	default:
		return metrics.FailureReason(err)
	}
}
