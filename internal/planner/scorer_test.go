package planner

import (
	"math/rand"
	"testing"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMainCourseTimeLimits(t *testing.T) {
	prefs := permissivePreferences()
	prefs.MaxPrepTimeWeeknight = 30
	prefs.MaxPrepTimeWeekend = 90
	candidates := []models.Recipe{
		recipe("slow", models.CourseMain, withMinutes(30, 45)),
		recipe("quick", models.CourseMain, withMinutes(10, 15)),
	}

	t.Run("weeknight uses weeknight limit", func(t *testing.T) {
		got := SelectMainCourseWithPreferences(candidates[:1], prefs, models.NewRotationState(), monday)
		assert.Nil(t, got)
	})

	t.Run("weekend uses weekend limit", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		got := SelectMainCourseWithPreferences(candidates[:1], prefs, models.NewRotationState(), saturday)
		require.NotNil(t, got)
		assert.Equal(t, "slow", got.ID)
	})

	t.Run("limit is inclusive", func(t *testing.T) {
		exact := []models.Recipe{recipe("exact", models.CourseMain, withMinutes(20, 10))}
		got := SelectMainCourseWithPreferences(exact, prefs, models.NewRotationState(), monday)
		require.NotNil(t, got)
	})
}

func TestSelectMainCourseSkillLevels(t *testing.T) {
	candidates := []models.Recipe{
		recipe("complex", models.CourseMain, withComplexity(models.ComplexityComplex)),
		recipe("moderate", models.CourseMain, withComplexity(models.ComplexityModerate)),
		recipe("simple", models.CourseMain, withComplexity(models.ComplexitySimple)),
	}

	tests := []struct {
		skill models.SkillLevel
		want  string
	}{
		{models.SkillBeginner, "simple"},
		{models.SkillIntermediate, "moderate"},
		{models.SkillAdvanced, "complex"},
	}

	for _, tt := range tests {
		t.Run(string(tt.skill), func(t *testing.T) {
			prefs := permissivePreferences()
			prefs.SkillLevel = tt.skill
			prefs.CuisineVarietyWeight = 0
			got := SelectMainCourseWithPreferences(candidates, prefs, models.NewRotationState(), monday)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestSelectMainCourseAvoidsConsecutiveComplex(t *testing.T) {
	prefs := permissivePreferences()
	prefs.AvoidConsecutiveComplex = true
	complexOnly := []models.Recipe{
		recipe("c1", models.CourseMain, withComplexity(models.ComplexityComplex)),
		recipe("c2", models.CourseMain, withComplexity(models.ComplexityComplex)),
	}
	state := models.NewRotationState()

	first := SelectMainCourseWithPreferences(complexOnly, prefs, state, monday)
	require.NotNil(t, first)
	require.NotNil(t, state.LastComplexMealDate)
	assert.True(t, state.LastComplexMealDate.Equal(monday))

	assert.Nil(t, SelectMainCourseWithPreferences(complexOnly, prefs, state, monday.AddDate(0, 0, 1)))

	// two days later is allowed again
	assert.NotNil(t, SelectMainCourseWithPreferences(complexOnly, prefs, state, monday.AddDate(0, 0, 2)))

	t.Run("disabled preference allows back to back", func(t *testing.T) {
		prefs.AvoidConsecutiveComplex = false
		state := models.NewRotationState()
		require.NotNil(t, SelectMainCourseWithPreferences(complexOnly, prefs, state, monday))
		assert.NotNil(t, SelectMainCourseWithPreferences(complexOnly, prefs, state, monday.AddDate(0, 0, 1)))
	})
}

func TestSelectMainCourseUniquenessAndCycleReset(t *testing.T) {
	prefs := permissivePreferences()
	candidates := mains(3)
	state := models.NewRotationState()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		got := SelectMainCourseWithPreferences(candidates, prefs, state, monday.AddDate(0, 0, i))
		require.NotNil(t, got)
		assert.False(t, seen[got.ID], "main %s repeated within a cycle", got.ID)
		seen[got.ID] = true
	}
	assert.Equal(t, 1, state.CycleNumber)
	assert.Len(t, state.UsedMainCourseIDs, 3)

	got := SelectMainCourseWithPreferences(candidates, prefs, state, monday.AddDate(0, 0, 3))
	require.NotNil(t, got)
	assert.Equal(t, 2, state.CycleNumber)
	assert.Len(t, state.UsedMainCourseIDs, 1)
}

func TestSelectMainCourseCuisineVariety(t *testing.T) {
	prefs := permissivePreferences()
	candidates := []models.Recipe{
		recipe("pasta", models.CourseMain, withCuisine(models.CuisineItalian)),
		recipe("risotto", models.CourseMain, withCuisine(models.CuisineItalian)),
		recipe("tacos", models.CourseMain, withCuisine(models.CuisineMexican)),
	}
	state := models.NewRotationState()

	first := SelectMainCourseWithPreferences(candidates, prefs, state, monday)
	require.NotNil(t, first)
	assert.Equal(t, "pasta", first.ID, "ties are broken by input order")

	second := SelectMainCourseWithPreferences(candidates, prefs, state, monday.AddDate(0, 0, 1))
	require.NotNil(t, second)
	assert.Equal(t, "tacos", second.ID, "an unused cuisine outscores a used one")

	assert.Equal(t, 1, state.CuisineUsageCount["italian"])
	assert.Equal(t, 1, state.CuisineUsageCount["mexican"])
}

func TestVarietyScore(t *testing.T) {
	state := models.NewRotationState()
	state.CuisineUsageCount["thai"] = 3
	r := recipe("curry", models.CourseMain, withCuisine(models.CuisineThai))

	assert.InDelta(t, 0.7*0.25, VarietyScore(r, 0.7, state), 1e-9)
}

func TestSelectMainCourseNilStateAndEmptyInput(t *testing.T) {
	assert.Nil(t, SelectMainCourseWithPreferences(nil, permissivePreferences(), nil, monday))
	assert.NotNil(t, SelectMainCourseWithPreferences(mains(1), permissivePreferences(), nil, monday))
}

func TestSelectMainCourseZeroPreferencesFallBackToDefaults(t *testing.T) {
	candidates := []models.Recipe{recipe("simple", models.CourseMain, withMinutes(10, 10))}
	got := SelectMainCourseWithPreferences(candidates, models.UserPreferences{}, models.NewRotationState(), monday)
	require.NotNil(t, got)

	// an unset skill level behaves like the default intermediate cook
	moderate := []models.Recipe{recipe("stew", models.CourseMain, withComplexity(models.ComplexityModerate))}
	assert.NotNil(t, SelectMainCourseWithPreferences(moderate, models.UserPreferences{}, models.NewRotationState(), monday))
	advanced := []models.Recipe{recipe("wellington", models.CourseMain, withComplexity(models.ComplexityComplex))}
	assert.Nil(t, SelectMainCourseWithPreferences(advanced, models.UserPreferences{}, models.NewRotationState(), monday))
}

func TestSelectCycledCourseFairness(t *testing.T) {
	appetizers := []models.Recipe{
		recipe("a1", models.CourseAppetizer),
		recipe("a2", models.CourseAppetizer),
		recipe("a3", models.CourseAppetizer),
		recipe("a4", models.CourseAppetizer),
	}
	state := models.NewRotationState()
	rng := rand.New(rand.NewSource(7))

	for cycle := 0; cycle < 3; cycle++ {
		seen := map[string]bool{}
		for i := 0; i < len(appetizers); i++ {
			got := SelectCycledCourse(appetizers, models.CourseAppetizer, state, rng)
			require.NotNil(t, got)
			assert.False(t, seen[got.ID], "cycle %d repeated %s", cycle, got.ID)
			seen[got.ID] = true
		}
		assert.Len(t, seen, len(appetizers))
	}
	assert.Empty(t, state.UsedDessertIDs)
}

func TestSelectCycledCourseEmpty(t *testing.T) {
	state := models.NewRotationState()
	assert.Nil(t, SelectCycledCourse(nil, models.CourseDessert, state, nil))
	assert.Empty(t, state.UsedDessertIDs)
}

func TestSelectCycledCourseByCourseType(t *testing.T) {
	tests := []struct {
		course models.CourseType
		want   bool
	}{
		{models.CourseAppetizer, true},
		{models.CourseDessert, true},
		{models.CourseMain, false},
		{models.CourseAccompaniment, false},
		{models.CourseType("brunch"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.course), func(t *testing.T) {
			state := models.NewRotationState()
			candidates := []models.Recipe{recipe("only", tt.course)}

			var got *models.Recipe
			require.NotPanics(t, func() {
				got = SelectCycledCourse(candidates, tt.course, state, nil)
				got = SelectCycledCourse(candidates, tt.course, state, nil)
			})

			if !tt.want {
				assert.Nil(t, got)
				assert.Equal(t, models.NewRotationState(), state)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "only", got.ID)
			assert.True(t, state.UsedSet(tt.course).Has("only"))
			assert.Empty(t, state.UsedMainCourseIDs)
			assert.Equal(t, 1, state.CycleNumber)
		})
	}
}
