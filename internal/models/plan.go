package models

import "time"

type MealSlot string

const (
	SlotAppetizer MealSlot = "appetizer"
	SlotMain      MealSlot = "main"
	SlotDessert   MealSlot = "dessert"
)

// MealSlots is the fill order within a day.
var MealSlots = []MealSlot{SlotAppetizer, SlotMain, SlotDessert}

const DaysPerWeek = 7

// MealAssignment is one slot of the calendar. A nil RecipeID is an intentionally empty slot.
type MealAssignment struct {
	DayIndex              int      `json:"day_index"`
	MealSlot              MealSlot `json:"meal_slot"`
	RecipeID              *string  `json:"recipe_id"`
	AccompanimentRecipeID *string  `json:"accompaniment_recipe_id,omitempty"`
}

func (a MealAssignment) IsEmpty() bool {
	return a.RecipeID == nil
}

func (a MealAssignment) Date(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, a.DayIndex)
}

type WeekPlan struct {
	WeekStartDate time.Time        `json:"week_start_date"`
	Assignments   []MealAssignment `json:"assignments"`
}

// Slot returns the assignment for a day and slot, or false if the plan does not have it.
func (w WeekPlan) Slot(day int, slot MealSlot) (MealAssignment, bool) {
	for _, a := range w.Assignments {
		if a.DayIndex == day && a.MealSlot == slot {
			return a, true
		}
	}
	return MealAssignment{}, false
}

func (w WeekPlan) EmptySlots() map[MealSlot]int {
	counts := make(map[MealSlot]int)
	for _, a := range w.Assignments {
		if a.IsEmpty() {
			counts[a.MealSlot]++
		}
	}
	return counts
}

type MultiWeekPlan struct {
	Weeks         []WeekPlan     `json:"weeks"`
	RotationState *RotationState `json:"rotation_state"`
}
