package runner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

const dateLayout = "2006-01-02"

// MealAssignmentRow is one calendar slot of a generated plan.
type MealAssignmentRow struct {
	Timestamp             int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	PlanID                string  `json:"planId" parquet:"name=planId,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserID                string  `json:"userId" parquet:"name=userId,type=BYTE_ARRAY,convertedtype=UTF8"`
	WeekStart             string  `json:"weekStart" parquet:"name=weekStart,type=BYTE_ARRAY,convertedtype=UTF8"`
	Date                  string  `json:"date" parquet:"name=date,type=BYTE_ARRAY,convertedtype=UTF8"`
	DayIndex              int32   `json:"dayIndex" parquet:"name=dayIndex,type=INT32"`
	MealSlot              string  `json:"mealSlot" parquet:"name=mealSlot,type=BYTE_ARRAY,convertedtype=UTF8"`
	RecipeID              *string `json:"recipeId,omitempty" parquet:"name=recipeId,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	RecipeTitle           *string `json:"recipeTitle,omitempty" parquet:"name=recipeTitle,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	AccompanimentRecipeID *string `json:"accompanimentRecipeId,omitempty" parquet:"name=accompanimentRecipeId,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	CycleNumber           int32   `json:"cycleNumber" parquet:"name=cycleNumber,type=INT32"`
}

// ShoppingItemRow is one aggregated line of a weekly shopping list.
type ShoppingItemRow struct {
	Timestamp int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	PlanID    string  `json:"planId" parquet:"name=planId,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserID    string  `json:"userId" parquet:"name=userId,type=BYTE_ARRAY,convertedtype=UTF8"`
	WeekStart string  `json:"weekStart" parquet:"name=weekStart,type=BYTE_ARRAY,convertedtype=UTF8"`
	Category  string  `json:"category" parquet:"name=category,type=BYTE_ARRAY,convertedtype=UTF8"`
	Name      string  `json:"name" parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Quantity  float64 `json:"quantity" parquet:"name=quantity,type=DOUBLE"`
	Unit      string  `json:"unit" parquet:"name=unit,type=BYTE_ARRAY,convertedtype=UTF8"`
	RecipeIDs string  `json:"recipeIds" parquet:"name=recipeIds,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// PlanGeneratedEvent summarises one PlanForUser call.
type PlanGeneratedEvent struct {
	Timestamp   int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	PlanID      string `json:"planId" parquet:"name=planId,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserID      string `json:"userId" parquet:"name=userId,type=BYTE_ARRAY,convertedtype=UTF8"`
	WeekStart   string `json:"weekStart" parquet:"name=weekStart,type=BYTE_ARRAY,convertedtype=UTF8"`
	Weeks       int32  `json:"weeks" parquet:"name=weeks,type=INT32"`
	EmptySlots  int32  `json:"emptySlots" parquet:"name=emptySlots,type=INT32"`
	CycleNumber int32  `json:"cycleNumber" parquet:"name=cycleNumber,type=INT32"`
	DurationMs  int64  `json:"durationMs" parquet:"name=durationMs,type=INT64"`
}

func newRowForTopic(topic string) (interface{}, error) {
	switch topic {
	case models.TopicMealAssignments:
		return new(MealAssignmentRow), nil
	case models.TopicShoppingItems:
		return new(ShoppingItemRow), nil
	case models.TopicPlanGenerated:
		return new(PlanGeneratedEvent), nil
	}
	return nil, fmt.Errorf("unknown topic: %s", topic)
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	row, err := newRowForTopic(topic)
	if err != nil {
		return nil, err
	}
	sh, err := schema.NewSchemaHandlerFromStruct(row)
	if err != nil {
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}
	return sh, nil
}

// decodeRow turns a serialised message back into the typed row for its topic.
func decodeRow(topic string, msg []byte) (interface{}, error) {
	row, err := newRowForTopic(topic)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(msg, row); err != nil {
		return nil, fmt.Errorf("failed to decode %s row: %w", topic, err)
	}
	return row, nil
}

func assignmentRows(planID, userID string, plan *models.MultiWeekPlan, titles map[string]string, now time.Time) []MealAssignmentRow {
	var rows []MealAssignmentRow
	for _, week := range plan.Weeks {
		for _, a := range week.Assignments {
			row := MealAssignmentRow{
				Timestamp:             now.Unix(),
				PlanID:                planID,
				UserID:                userID,
				WeekStart:             week.WeekStartDate.Format(dateLayout),
				Date:                  a.Date(week.WeekStartDate).Format(dateLayout),
				DayIndex:              int32(a.DayIndex),
				MealSlot:              string(a.MealSlot),
				RecipeID:              a.RecipeID,
				AccompanimentRecipeID: a.AccompanimentRecipeID,
				CycleNumber:           int32(plan.RotationState.CycleNumber),
			}
			if a.RecipeID != nil {
				if title, ok := titles[*a.RecipeID]; ok {
					row.RecipeTitle = &title
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func shoppingRows(planID, userID string, list models.ShoppingList, now time.Time) []ShoppingItemRow {
	var rows []ShoppingItemRow
	for _, category := range list.Categories {
		for _, item := range category.Items {
			rows = append(rows, ShoppingItemRow{
				Timestamp: now.Unix(),
				PlanID:    planID,
				UserID:    userID,
				WeekStart: list.WeekStartDate.Format(dateLayout),
				Category:  category.Name,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Unit:      item.Unit,
				RecipeIDs: strings.Join(item.RecipeIDs, ","),
			})
		}
	}
	return rows
}
