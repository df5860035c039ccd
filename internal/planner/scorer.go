package planner

import (
	"math/rand"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
)

// SelectMainCourseWithPreferences picks the main course for date. Time, skill and
// consecutive-complexity are hard filters; cycle uniqueness is a hard filter that
// resets once the eligible pool is exhausted; cuisine variety decides among the
// survivors. On selection the rotation state is updated. Returns nil when no
// candidate passes the hard filters.
func SelectMainCourseWithPreferences(candidates []models.Recipe, prefs models.UserPreferences, state *models.RotationState, date time.Time) *models.Recipe {
	if state == nil {
		state = models.NewRotationState()
	}
	state.Normalize()
	prefs = prefs.Effective()

	eligible := eligibleMainCourses(candidates, prefs, state, date)
	if len(eligible) == 0 {
		return nil
	}

	pool := make([]models.Recipe, 0, len(eligible))
	for _, r := range eligible {
		if !state.IsMainCourseUsed(r.ID) {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		state.ResetMainCourseCycle()
		pool = eligible
	}

	selected := highestVarietyScore(pool, prefs.CuisineVarietyWeight, state)
	state.RecordMainCourse(selected, date)
	return &selected
}

func eligibleMainCourses(candidates []models.Recipe, prefs models.UserPreferences, state *models.RotationState, date time.Time) []models.Recipe {
	limit := prefs.MaxPrepTimeWeeknight
	if isWeekend(date) {
		limit = prefs.MaxPrepTimeWeekend
	}
	blockComplex := prefs.AvoidConsecutiveComplex && isDayAfter(state.LastComplexMealDate, date)

	eligible := make([]models.Recipe, 0, len(candidates))
	for _, r := range candidates {
		if r.TotalMinutes() > limit {
			continue
		}
		if !prefs.SkillLevel.Allows(r.Complexity) {
			continue
		}
		if blockComplex && r.Complexity == models.ComplexityComplex {
			continue
		}
		eligible = append(eligible, r)
	}
	return eligible
}

// VarietyScore is weight * 1/(uses+1) for the recipe's cuisine.
func VarietyScore(r models.Recipe, weight float64, state *models.RotationState) float64 {
	return weight * (1.0 / float64(state.CuisineUsage(r.Cuisine)+1))
}

// highestVarietyScore keeps the first candidate on ties, so input order decides.
func highestVarietyScore(pool []models.Recipe, weight float64, state *models.RotationState) models.Recipe {
	best := pool[0]
	bestScore := VarietyScore(best, weight, state)
	for _, r := range pool[1:] {
		if score := VarietyScore(r, weight, state); score > bestScore {
			best, bestScore = r, score
		}
	}
	return best
}

// SelectCycledCourse picks an appetizer or dessert. Each favorite of the course
// appears once before any repeats; after that the cycle for that course starts
// over. Returns nil when there are no candidates or course is not an appetizer
// or dessert.
func SelectCycledCourse(candidates []models.Recipe, course models.CourseType, state *models.RotationState, rng *rand.Rand) *models.Recipe {
	if len(candidates) == 0 || !isCycledCourse(course) {
		return nil
	}
	if state == nil {
		state = models.NewRotationState()
	}
	state.Normalize()

	used := state.UsedSet(course)
	pool := make([]models.Recipe, 0, len(candidates))
	for _, r := range candidates {
		if !used.Has(r.ID) {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		state.ResetUsedSet(course)
		pool = candidates
	}

	selected := pick(pool, rng)
	state.UsedSet(course)[selected.ID] = struct{}{}
	return &selected
}

func isCycledCourse(course models.CourseType) bool {
	return course == models.CourseAppetizer || course == models.CourseDessert
}

func pick(pool []models.Recipe, rng *rand.Rand) models.Recipe {
	if rng == nil {
		return pool[0]
	}
	return pool[rng.Intn(len(pool))]
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func isDayAfter(last *time.Time, date time.Time) bool {
	if last == nil {
		return false
	}
	next := last.In(date.Location()).AddDate(0, 0, 1)
	y1, m1, d1 := next.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
