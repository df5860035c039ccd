package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPreferencesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UserPreferences)
		wantErr bool
	}{
		{"defaults", func(*UserPreferences) {}, false},
		{"zero limits fall back later", func(p *UserPreferences) { p.MaxPrepTimeWeeknight = 0 }, false},
		{"negative limit", func(p *UserPreferences) { p.MaxPrepTimeWeekend = -5 }, true},
		{"weight above one", func(p *UserPreferences) { p.CuisineVarietyWeight = 1.5 }, true},
		{"unknown skill", func(p *UserPreferences) { p.SkillLevel = "chef" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPreferences)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserPreferencesEffective(t *testing.T) {
	p := UserPreferences{}.Effective()

	assert.Equal(t, DefaultMaxPrepTimeWeeknight, p.MaxPrepTimeWeeknight)
	assert.Equal(t, DefaultMaxPrepTimeWeekend, p.MaxPrepTimeWeekend)
	assert.Equal(t, DefaultSkillLevel, p.SkillLevel)
	assert.Equal(t, DefaultPreferences().SkillLevel, p.SkillLevel)
}

func TestSkillLevelAllows(t *testing.T) {
	assert.True(t, SkillBeginner.Allows(ComplexitySimple))
	assert.False(t, SkillBeginner.Allows(ComplexityModerate))
	assert.True(t, SkillIntermediate.Allows(ComplexityModerate))
	assert.False(t, SkillIntermediate.Allows(ComplexityComplex))
	assert.True(t, SkillAdvanced.Allows(ComplexityComplex))
}

func TestRotationStateJSON(t *testing.T) {
	last := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	state := NewRotationState()
	state.CycleNumber = 2
	state.UsedMainCourseIDs = NewIDSet("b", "a")
	state.CuisineUsageCount["italian"] = 4
	state.LastComplexMealDate = &last

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"used_main_course_ids":["a","b"]`)

	var decoded RotationState
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.CycleNumber)
	assert.True(t, decoded.IsMainCourseUsed("a"))
	assert.Equal(t, 4, decoded.CuisineUsageCount["italian"])
	require.NotNil(t, decoded.LastComplexMealDate)
	assert.True(t, decoded.LastComplexMealDate.Equal(last))
}

func TestRotationStateNormalize(t *testing.T) {
	var state RotationState
	require.NoError(t, json.Unmarshal([]byte(`{}`), &state))

	state.Normalize()

	assert.Equal(t, 1, state.CycleNumber)
	assert.NotNil(t, state.UsedMainCourseIDs)
	assert.NotNil(t, state.UsedAppetizerIDs)
	assert.NotNil(t, state.UsedDessertIDs)
	assert.NotNil(t, state.CuisineUsageCount)
}

func TestRotationStateClone(t *testing.T) {
	state := NewRotationState()
	state.RecordMainCourse(Recipe{ID: "r1", Cuisine: NewCuisine(CuisineThai), Complexity: ComplexityComplex}, time.Now())

	clone := state.Clone()
	clone.RecordMainCourse(Recipe{ID: "r2", Cuisine: NewCuisine(CuisineThai)}, time.Now())
	clone.ResetMainCourseCycle()

	assert.True(t, state.IsMainCourseUsed("r1"))
	assert.False(t, state.IsMainCourseUsed("r2"))
	assert.Equal(t, 1, state.CuisineUsageCount["thai"])
	assert.Equal(t, 1, state.CycleNumber)
	assert.Equal(t, 2, clone.CycleNumber)
	assert.NotNil(t, clone.LastComplexMealDate)
}

func TestCuisine(t *testing.T) {
	assert.Equal(t, NewCuisine(CuisineItalian), ParseCuisine(" Italian "))

	custom := ParseCuisine("Peruvian")
	assert.Equal(t, CuisineOther, custom.Kind)
	assert.Equal(t, "Peruvian", custom.String())
	assert.Equal(t, CustomCuisine("peruvian").Key(), custom.Key())

	data, err := json.Marshal(Recipe{ID: "x", Cuisine: custom})
	require.NoError(t, err)
	var r Recipe
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, custom, r.Cuisine)
}

func TestRecipeHelpers(t *testing.T) {
	r := Recipe{
		CourseType:           CourseMain,
		PrepMinutes:          15,
		CookMinutes:          20,
		AcceptsAccompaniment: true,
		DietaryTags:          []DietaryTag{DietaryVegan},
		Ingredients:          []Ingredient{{Name: "Toasted Sesame Oil"}},
	}

	assert.Equal(t, 35, r.TotalMinutes())
	assert.True(t, r.HasTag(DietaryVegan))
	assert.True(t, r.ContainsIngredient("sesame"))
	assert.True(t, r.TakesAccompaniment())

	r.CourseType = CourseAccompaniment
	assert.False(t, r.TakesAccompaniment())
}
