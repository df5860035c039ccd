package models

import (
	"slices"
	"time"
)

type User struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	JoinDate          time.Time       `json:"join_date"`
	Preferences       UserPreferences `json:"preferences"`
	FavoriteRecipeIDs []string        `json:"favorite_recipe_ids"`
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	c := u
	c.FavoriteRecipeIDs = slices.Clone(u.FavoriteRecipeIDs)
	c.Preferences.DietaryRestrictions = slices.Clone(u.Preferences.DietaryRestrictions)
	return c
}
