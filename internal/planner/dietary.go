package planner

import (
	"github.com/chrisdamba/mealplanner/internal/models"
)

// FilterByDietaryRestrictions keeps the recipes that satisfy every restriction.
// With no active restrictions the input is returned unchanged.
func FilterByDietaryRestrictions(recipes []models.Recipe, restrictions []models.DietaryRestriction) []models.Recipe {
	active := activeRestrictions(restrictions)
	if len(active) == 0 {
		return recipes
	}

	filtered := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if satisfiesAll(r, active) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SatisfiesRestrictions reports whether a single recipe is safe for the given restrictions.
func SatisfiesRestrictions(r models.Recipe, restrictions []models.DietaryRestriction) bool {
	active := activeRestrictions(restrictions)
	if len(active) == 0 {
		return true
	}
	return satisfiesAll(r, active)
}

func activeRestrictions(restrictions []models.DietaryRestriction) []models.DietaryRestriction {
	var active []models.DietaryRestriction
	for _, d := range restrictions {
		if d.IsCustom() && d.Allergen == "" {
			continue
		}
		active = append(active, d)
	}
	return active
}

func satisfiesAll(r models.Recipe, restrictions []models.DietaryRestriction) bool {
	// untagged recipes are unknown, so they match nothing
	if len(r.DietaryTags) == 0 {
		return false
	}
	for _, d := range restrictions {
		if d.IsCustom() {
			if r.ContainsIngredient(d.Allergen) {
				return false
			}
			continue
		}
		if !r.HasTag(d.Tag) {
			return false
		}
	}
	return true
}
