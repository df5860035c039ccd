package planner

import (
	"errors"
	"fmt"

	"github.com/chrisdamba/mealplanner/internal/models"
)

var (
	ErrInsufficientRecipes = errors.New("insufficient recipes")
	ErrInvalidWeekCount    = errors.New("week count must be at least 1")
)

// InsufficientRecipesError is returned when the caller required a minimum pool
// size for a course type and the dietary-filtered favorites cannot meet it.
type InsufficientRecipesError struct {
	CourseType models.CourseType
	Required   int
	Available  int
}

func (e *InsufficientRecipesError) Error() string {
	return fmt.Sprintf("insufficient %s recipes: need %d, have %d after dietary filtering",
		e.CourseType, e.Required, e.Available)
}

func (e *InsufficientRecipesError) Is(target error) bool {
	return target == ErrInsufficientRecipes
}
