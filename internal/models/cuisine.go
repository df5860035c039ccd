package models

import (
	"encoding/json"
	"strings"
)

type CuisineKind string

const (
	CuisineItalian       CuisineKind = "italian"
	CuisineFrench        CuisineKind = "french"
	CuisineChinese       CuisineKind = "chinese"
	CuisineJapanese      CuisineKind = "japanese"
	CuisineIndian        CuisineKind = "indian"
	CuisineMexican       CuisineKind = "mexican"
	CuisineAmerican      CuisineKind = "american"
	CuisineMediterranean CuisineKind = "mediterranean"
	CuisineThai          CuisineKind = "thai"
	CuisineGreek         CuisineKind = "greek"
	CuisineOther         CuisineKind = "other"
)

var KnownCuisines = []CuisineKind{
	CuisineItalian, CuisineFrench, CuisineChinese, CuisineJapanese, CuisineIndian,
	CuisineMexican, CuisineAmerican, CuisineMediterranean, CuisineThai, CuisineGreek,
}

// Cuisine is either one of KnownCuisines or CuisineOther carrying a free-text name.
type Cuisine struct {
	Kind   CuisineKind
	Custom string
}

func NewCuisine(kind CuisineKind) Cuisine {
	return Cuisine{Kind: kind}
}

func CustomCuisine(name string) Cuisine {
	return Cuisine{Kind: CuisineOther, Custom: strings.TrimSpace(name)}
}

// ParseCuisine maps a stored or user-entered value onto the closed set,
// falling back to a custom cuisine.
func ParseCuisine(value string) Cuisine {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, k := range KnownCuisines {
		if string(k) == v {
			return Cuisine{Kind: k}
		}
	}
	return CustomCuisine(value)
}

// Key identifies the cuisine in usage counters. Custom cuisines compare case-insensitively.
func (c Cuisine) Key() string {
	if c.Kind == CuisineOther || c.Kind == "" {
		return string(CuisineOther) + ":" + strings.ToLower(strings.TrimSpace(c.Custom))
	}
	return string(c.Kind)
}

func (c Cuisine) String() string {
	if c.Kind == CuisineOther || c.Kind == "" {
		return c.Custom
	}
	return string(c.Kind)
}

func (c Cuisine) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Cuisine) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCuisine(s)
	return nil
}
