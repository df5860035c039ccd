package models

import (
	"encoding/json"
	"strings"
)

type DietaryTag string

const (
	DietaryVegetarian DietaryTag = "vegetarian"
	DietaryVegan      DietaryTag = "vegan"
	DietaryGlutenFree DietaryTag = "gluten_free"
	DietaryDairyFree  DietaryTag = "dairy_free"
	DietaryNutFree    DietaryTag = "nut_free"
	DietaryHalal      DietaryTag = "halal"
	DietaryKosher     DietaryTag = "kosher"
)

var StandardDietaryTags = []DietaryTag{
	DietaryVegetarian, DietaryVegan, DietaryGlutenFree, DietaryDairyFree,
	DietaryNutFree, DietaryHalal, DietaryKosher,
}

// DietaryRestriction is either a standard tag the recipe must carry, or a
// custom allergen that must not appear in any ingredient name.
type DietaryRestriction struct {
	Tag      DietaryTag
	Allergen string
}

func Restrict(tag DietaryTag) DietaryRestriction {
	return DietaryRestriction{Tag: tag}
}

func Allergen(text string) DietaryRestriction {
	return DietaryRestriction{Allergen: strings.TrimSpace(text)}
}

// ParseRestriction accepts tag names in any case, with spaces, dashes or
// underscores ("Gluten-Free", "gluten free"). Anything else is a custom allergen.
func ParseRestriction(value string) DietaryRestriction {
	norm := strings.ToLower(strings.TrimSpace(value))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, tag := range StandardDietaryTags {
		if string(tag) == norm {
			return Restrict(tag)
		}
	}
	return Allergen(value)
}

func (d DietaryRestriction) IsCustom() bool {
	return d.Tag == ""
}

func (d DietaryRestriction) String() string {
	if d.IsCustom() {
		return d.Allergen
	}
	return string(d.Tag)
}

func (d DietaryRestriction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DietaryRestriction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = ParseRestriction(s)
	return nil
}
