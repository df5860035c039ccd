package models

import (
	"encoding/json"
	"sort"
	"time"
)

// IDSet is a set of recipe ids. It encodes as a sorted JSON array.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// RotationState is the planner's memory across weeks and across runs. The
// caller loads it before generation and persists it afterwards.
type RotationState struct {
	CycleNumber         int            `json:"cycle_number"`
	UsedMainCourseIDs   IDSet          `json:"used_main_course_ids"`
	UsedAppetizerIDs    IDSet          `json:"used_appetizer_ids"`
	UsedDessertIDs      IDSet          `json:"used_dessert_ids"`
	CuisineUsageCount   map[string]int `json:"cuisine_usage_count"`
	LastComplexMealDate *time.Time     `json:"last_complex_meal_date,omitempty"`
}

func NewRotationState() *RotationState {
	return &RotationState{
		CycleNumber:       1,
		UsedMainCourseIDs: NewIDSet(),
		UsedAppetizerIDs:  NewIDSet(),
		UsedDessertIDs:    NewIDSet(),
		CuisineUsageCount: make(map[string]int),
	}
}

// Normalize repairs a state decoded from storage with missing fields.
func (s *RotationState) Normalize() {
	if s.CycleNumber < 1 {
		s.CycleNumber = 1
	}
	if s.UsedMainCourseIDs == nil {
		s.UsedMainCourseIDs = NewIDSet()
	}
	if s.UsedAppetizerIDs == nil {
		s.UsedAppetizerIDs = NewIDSet()
	}
	if s.UsedDessertIDs == nil {
		s.UsedDessertIDs = NewIDSet()
	}
	if s.CuisineUsageCount == nil {
		s.CuisineUsageCount = make(map[string]int)
	}
}

func (s *RotationState) IsMainCourseUsed(id string) bool {
	return s.UsedMainCourseIDs.Has(id)
}

func (s *RotationState) ResetMainCourseCycle() {
	s.UsedMainCourseIDs = NewIDSet()
	s.CycleNumber++
}

func (s *RotationState) CuisineUsage(c Cuisine) int {
	return s.CuisineUsageCount[c.Key()]
}

// RecordMainCourse applies the side effects of selecting a main course on date.
func (s *RotationState) RecordMainCourse(r Recipe, date time.Time) {
	s.UsedMainCourseIDs[r.ID] = struct{}{}
	s.CuisineUsageCount[r.Cuisine.Key()]++
	if r.Complexity == ComplexityComplex {
		d := date
		s.LastComplexMealDate = &d
	}
}

// UsedSet returns the fair-cycling set for appetizers and desserts, and nil
// for any other course. Main courses rotate through RecordMainCourse.
func (s *RotationState) UsedSet(course CourseType) IDSet {
	switch course {
	case CourseAppetizer:
		return s.UsedAppetizerIDs
	case CourseDessert:
		return s.UsedDessertIDs
	}
	return nil
}

// ResetUsedSet clears the fair-cycling set for appetizers or desserts.
func (s *RotationState) ResetUsedSet(course CourseType) {
	switch course {
	case CourseAppetizer:
		s.UsedAppetizerIDs = NewIDSet()
	case CourseDessert:
		s.UsedDessertIDs = NewIDSet()
	}
}

// Clone returns a deep copy so callers can snapshot state before generation.
func (s *RotationState) Clone() *RotationState {
	c := &RotationState{
		CycleNumber:       s.CycleNumber,
		UsedMainCourseIDs: NewIDSet(s.UsedMainCourseIDs.Sorted()...),
		UsedAppetizerIDs:  NewIDSet(s.UsedAppetizerIDs.Sorted()...),
		UsedDessertIDs:    NewIDSet(s.UsedDessertIDs.Sorted()...),
		CuisineUsageCount: make(map[string]int, len(s.CuisineUsageCount)),
	}
	for k, v := range s.CuisineUsageCount {
		c.CuisineUsageCount[k] = v
	}
	if s.LastComplexMealDate != nil {
		d := *s.LastComplexMealDate
		c.LastComplexMealDate = &d
	}
	return c
}
