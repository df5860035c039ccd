package cmd

import (
	"reflect"
	"strings"
	"testing"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "favorites_per_user", flagKey("favorites-per-user"))
	assert.Equal(t, "seed", flagKey("seed"))
}

func TestFlagsMapOntoConfigKeys(t *testing.T) {
	keys := map[string]bool{}
	typ := reflect.TypeOf(models.Config{})
	for i := 0; i < typ.NumField(); i++ {
		tag, _, _ := strings.Cut(typ.Field(i).Tag.Get("mapstructure"), ",")
		keys[tag] = true
	}

	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		assert.True(t, keys[flagKey(f.Name)], "flag %s has no config key", f.Name)
	})
}
