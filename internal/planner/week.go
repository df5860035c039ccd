package planner

import (
	"math/rand"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
)

// CoursePools holds candidate recipes split by course type.
type CoursePools struct {
	Appetizers     []models.Recipe
	MainCourses    []models.Recipe
	Desserts       []models.Recipe
	Accompaniments []models.Recipe
}

func PartitionByCourse(recipes []models.Recipe) CoursePools {
	var pools CoursePools
	for _, r := range recipes {
		switch r.CourseType {
		case models.CourseAppetizer:
			pools.Appetizers = append(pools.Appetizers, r)
		case models.CourseMain:
			pools.MainCourses = append(pools.MainCourses, r)
		case models.CourseDessert:
			pools.Desserts = append(pools.Desserts, r)
		case models.CourseAccompaniment:
			pools.Accompaniments = append(pools.Accompaniments, r)
		}
	}
	return pools
}

func (p CoursePools) Size(course models.CourseType) int {
	switch course {
	case models.CourseAppetizer:
		return len(p.Appetizers)
	case models.CourseMain:
		return len(p.MainCourses)
	case models.CourseDessert:
		return len(p.Desserts)
	case models.CourseAccompaniment:
		return len(p.Accompaniments)
	}
	return 0
}

// GenerateSingleWeek fills the 7x3 grid starting at weekStart (a Monday). Slots
// with no eligible recipe are left empty. The result is deterministic for a
// given rng seed; a nil rng always takes the first eligible candidate.
func GenerateSingleWeek(pools CoursePools, prefs models.UserPreferences, state *models.RotationState, weekStart time.Time, rng *rand.Rand) models.WeekPlan {
	if state == nil {
		state = models.NewRotationState()
	}
	state.Normalize()

	week := models.WeekPlan{
		WeekStartDate: weekStart,
		Assignments:   make([]models.MealAssignment, 0, models.DaysPerWeek*len(models.MealSlots)),
	}

	for day := 0; day < models.DaysPerWeek; day++ {
		date := weekStart.AddDate(0, 0, day)
		for _, slot := range models.MealSlots {
			assignment := models.MealAssignment{DayIndex: day, MealSlot: slot}

			switch slot {
			case models.SlotAppetizer:
				if r := SelectCycledCourse(pools.Appetizers, models.CourseAppetizer, state, rng); r != nil {
					assignment.RecipeID = stringPtr(r.ID)
				}
			case models.SlotMain:
				if r := SelectMainCourseWithPreferences(pools.MainCourses, prefs, state, date); r != nil {
					assignment.RecipeID = stringPtr(r.ID)
					if r.TakesAccompaniment() {
						if side := PairAccompaniment(*r, pools.Accompaniments, rng); side != nil {
							assignment.AccompanimentRecipeID = stringPtr(side.ID)
						}
					}
				}
			case models.SlotDessert:
				if r := SelectCycledCourse(pools.Desserts, models.CourseDessert, state, rng); r != nil {
					assignment.RecipeID = stringPtr(r.ID)
				}
			}

			week.Assignments = append(week.Assignments, assignment)
		}
	}

	return week
}

// PairAccompaniment chooses a side for main. Accompaniments whose category is one
// of the main's preferred categories win; when none match, any accompaniment will do.
// Repeats are unrestricted.
func PairAccompaniment(main models.Recipe, accompaniments []models.Recipe, rng *rand.Rand) *models.Recipe {
	if !main.TakesAccompaniment() || len(accompaniments) == 0 {
		return nil
	}

	compatible := make([]models.Recipe, 0, len(accompaniments))
	for _, a := range accompaniments {
		for _, cat := range main.PreferredAccompanimentCategories {
			if a.AccompanimentCategory == cat {
				compatible = append(compatible, a)
				break
			}
		}
	}
	if len(compatible) == 0 {
		compatible = accompaniments
	}

	selected := pick(compatible, rng)
	return &selected
}

func stringPtr(s string) *string {
	return &s
}
