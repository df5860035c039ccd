package models

import (
	"slices"
	"strings"
)

type CourseType string

const (
	CourseAppetizer     CourseType = "appetizer"
	CourseMain          CourseType = "main_course"
	CourseDessert       CourseType = "dessert"
	CourseAccompaniment CourseType = "accompaniment"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

type AccompanimentCategory string

const (
	AccompanimentPasta     AccompanimentCategory = "pasta"
	AccompanimentRice      AccompanimentCategory = "rice"
	AccompanimentFries     AccompanimentCategory = "fries"
	AccompanimentSalad     AccompanimentCategory = "salad"
	AccompanimentBread     AccompanimentCategory = "bread"
	AccompanimentVegetable AccompanimentCategory = "vegetable"
	AccompanimentOther     AccompanimentCategory = "other"
)

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is read-only input to the planner.
type Recipe struct {
	ID                               string                  `json:"id"`
	Title                            string                  `json:"title"`
	CourseType                       CourseType              `json:"course_type"`
	Complexity                       Complexity              `json:"complexity"`
	PrepMinutes                      int                     `json:"prep_minutes"`
	CookMinutes                      int                     `json:"cook_minutes"`
	Cuisine                          Cuisine                 `json:"cuisine"`
	DietaryTags                      []DietaryTag            `json:"dietary_tags"`
	AcceptsAccompaniment             bool                    `json:"accepts_accompaniment"`
	PreferredAccompanimentCategories []AccompanimentCategory `json:"preferred_accompaniment_categories,omitempty"`
	AccompanimentCategory            AccompanimentCategory   `json:"accompaniment_category,omitempty"`
	Ingredients                      []Ingredient            `json:"ingredients"`
}

// Clone returns a copy that shares no slices with r.
func (r Recipe) Clone() Recipe {
	c := r
	c.DietaryTags = slices.Clone(r.DietaryTags)
	c.PreferredAccompanimentCategories = slices.Clone(r.PreferredAccompanimentCategories)
	c.Ingredients = slices.Clone(r.Ingredients)
	return c
}

func (r Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

func (r Recipe) HasTag(tag DietaryTag) bool {
	for _, t := range r.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// TakesAccompaniment reports whether a side dish should be paired with this recipe.
// Accompaniments never take an accompaniment themselves, whatever the flag says.
func (r Recipe) TakesAccompaniment() bool {
	return r.CourseType == CourseMain && r.AcceptsAccompaniment
}

// ContainsIngredient does a case-insensitive substring match over ingredient names.
func (r Recipe) ContainsIngredient(text string) bool {
	needle := strings.ToLower(text)
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), needle) {
			return true
		}
	}
	return false
}
