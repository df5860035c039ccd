package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

const (
	DefaultMaxPrepTimeWeeknight = 30
	DefaultMaxPrepTimeWeekend   = 90
	DefaultCuisineVarietyWeight = 0.7

	// DefaultSkillLevel applies to new users and to preferences with no skill level set.
	DefaultSkillLevel = SkillIntermediate
)

var ErrInvalidPreferences = errors.New("invalid meal planning preferences")

var validate = validator.New()

type UserPreferences struct {
	DietaryRestrictions     []DietaryRestriction `json:"dietary_restrictions"`
	MaxPrepTimeWeeknight    int                  `json:"max_prep_time_weeknight" validate:"gte=0,lte=1440"`
	MaxPrepTimeWeekend      int                  `json:"max_prep_time_weekend" validate:"gte=0,lte=1440"`
	SkillLevel              SkillLevel           `json:"skill_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	AvoidConsecutiveComplex bool                 `json:"avoid_consecutive_complex"`
	CuisineVarietyWeight    float64              `json:"cuisine_variety_weight" validate:"gte=0,lte=1"`
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		MaxPrepTimeWeeknight:    DefaultMaxPrepTimeWeeknight,
		MaxPrepTimeWeekend:      DefaultMaxPrepTimeWeekend,
		SkillLevel:              DefaultSkillLevel,
		AvoidConsecutiveComplex: true,
		CuisineVarietyWeight:    DefaultCuisineVarietyWeight,
	}
}

// Validate checks ranges before the preferences are handed to the planner.
func (p UserPreferences) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return nil
}

// Effective fills zero-valued limits and an unset skill level with their defaults.
func (p UserPreferences) Effective() UserPreferences {
	if p.MaxPrepTimeWeeknight <= 0 {
		p.MaxPrepTimeWeeknight = DefaultMaxPrepTimeWeeknight
	}
	if p.MaxPrepTimeWeekend <= 0 {
		p.MaxPrepTimeWeekend = DefaultMaxPrepTimeWeekend
	}
	if p.SkillLevel == "" {
		p.SkillLevel = DefaultSkillLevel
	}
	return p
}

// Allows reports whether the skill level permits cooking a recipe of the given complexity.
func (s SkillLevel) Allows(c Complexity) bool {
	switch s {
	case SkillAdvanced:
		return c == ComplexitySimple || c == ComplexityModerate || c == ComplexityComplex
	case SkillIntermediate:
		return c == ComplexitySimple || c == ComplexityModerate
	default:
		return c == ComplexitySimple
	}
}
