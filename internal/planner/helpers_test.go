package planner

import (
	"fmt"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
)

// monday is 2024-01-01, a Monday.
var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func recipe(id string, course models.CourseType, opts ...func(*models.Recipe)) models.Recipe {
	r := models.Recipe{
		ID:          id,
		Title:       id,
		CourseType:  course,
		Complexity:  models.ComplexitySimple,
		PrepMinutes: 10,
		CookMinutes: 10,
		Cuisine:     models.NewCuisine(models.CuisineItalian),
		DietaryTags: []models.DietaryTag{models.DietaryVegetarian},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func withCuisine(kind models.CuisineKind) func(*models.Recipe) {
	return func(r *models.Recipe) { r.Cuisine = models.NewCuisine(kind) }
}

func withComplexity(c models.Complexity) func(*models.Recipe) {
	return func(r *models.Recipe) { r.Complexity = c }
}

func withMinutes(prep, cook int) func(*models.Recipe) {
	return func(r *models.Recipe) { r.PrepMinutes, r.CookMinutes = prep, cook }
}

func withTags(tags ...models.DietaryTag) func(*models.Recipe) {
	return func(r *models.Recipe) { r.DietaryTags = tags }
}

func withIngredients(ings ...models.Ingredient) func(*models.Recipe) {
	return func(r *models.Recipe) { r.Ingredients = ings }
}

func withAccompaniment(cats ...models.AccompanimentCategory) func(*models.Recipe) {
	return func(r *models.Recipe) {
		r.AcceptsAccompaniment = true
		r.PreferredAccompanimentCategories = cats
	}
}

func sideOf(cat models.AccompanimentCategory) func(*models.Recipe) {
	return func(r *models.Recipe) { r.AccompanimentCategory = cat }
}

func mains(n int) []models.Recipe {
	cuisines := models.KnownCuisines
	out := make([]models.Recipe, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, recipe(fmt.Sprintf("main-%02d", i), models.CourseMain, withCuisine(cuisines[i%len(cuisines)])))
	}
	return out
}

func permissivePreferences() models.UserPreferences {
	return models.UserPreferences{
		MaxPrepTimeWeeknight:    600,
		MaxPrepTimeWeekend:      600,
		SkillLevel:              models.SkillAdvanced,
		AvoidConsecutiveComplex: false,
		CuisineVarietyWeight:    0.7,
	}
}

func ids(recipes []models.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func ptr(s string) *string {
	return &s
}
