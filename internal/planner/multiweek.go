package planner

import (
	"math/rand"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
)

type options struct {
	from     time.Time
	rng      *rand.Rand
	minimums map[models.CourseType]int
}

type Option func(*options)

// StartingFrom sets the reference date; the first planned week is the Monday after it.
func StartingFrom(t time.Time) Option {
	return func(o *options) { o.from = t }
}

// WithRand seeds appetizer, dessert and accompaniment choices.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// RequireMinimum makes generation fail with ErrInsufficientRecipes when fewer than n
// recipes of the course survive dietary filtering. Without it an empty pool simply
// produces empty slots.
func RequireMinimum(course models.CourseType, n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minimums[course] = n
		}
	}
}

// GenerateMultiWeekPlans plans weekCount consecutive Monday-aligned weeks from the
// user's favorites. state is mutated in place and shared by every week, so main
// course uniqueness holds across the whole run; it is also returned in the plan.
func GenerateMultiWeekPlans(favorites []models.Recipe, prefs models.UserPreferences, state *models.RotationState, weekCount int, opts ...Option) (*models.MultiWeekPlan, error) {
	o := options{from: time.Now(), minimums: make(map[models.CourseType]int)}
	for _, opt := range opts {
		opt(&o)
	}

	if weekCount < 1 {
		return nil, ErrInvalidWeekCount
	}
	if state == nil {
		state = models.NewRotationState()
	}
	state.Normalize()

	filtered := FilterByDietaryRestrictions(favorites, prefs.DietaryRestrictions)
	pools := PartitionByCourse(filtered)

	for _, course := range []models.CourseType{models.CourseMain, models.CourseAppetizer, models.CourseDessert, models.CourseAccompaniment} {
		required, ok := o.minimums[course]
		if !ok {
			continue
		}
		if available := pools.Size(course); available < required {
			return nil, &InsufficientRecipesError{CourseType: course, Required: required, Available: available}
		}
	}

	starts := WeekStartDates(o.from, weekCount)
	plan := &models.MultiWeekPlan{
		Weeks:         make([]models.WeekPlan, 0, weekCount),
		RotationState: state,
	}
	for _, start := range starts {
		plan.Weeks = append(plan.Weeks, GenerateSingleWeek(pools, prefs, state, start, o.rng))
	}

	return plan, nil
}

// NextMonday returns midnight of the first Monday strictly after from.
func NextMonday(from time.Time) time.Time {
	days := (8 - int(from.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	y, m, d := from.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, from.Location()).AddDate(0, 0, days)
}

func WeekStartDates(from time.Time, count int) []time.Time {
	first := NextMonday(from)
	starts := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		starts = append(starts, first.AddDate(0, 0, 7*i))
	}
	return starts
}
