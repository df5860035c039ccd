package models

import "time"

const (
	ShoppingFrozen  = "Frozen"
	ShoppingPantry  = "Pantry"
	ShoppingDairy   = "Dairy"
	ShoppingMeat    = "Meat & Seafood"
	ShoppingProduce = "Produce"
	ShoppingBakery  = "Bakery"
	ShoppingOther   = "Other"
)

type ShoppingItem struct {
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Unit      string   `json:"unit"`
	RecipeIDs []string `json:"recipe_ids"`
}

type ShoppingCategory struct {
	Name  string         `json:"name"`
	Items []ShoppingItem `json:"items"`
}

type ShoppingList struct {
	WeekStartDate time.Time          `json:"week_start_date"`
	Categories    []ShoppingCategory `json:"categories"`
}

func (l ShoppingList) ItemCount() int {
	n := 0
	for _, c := range l.Categories {
		n += len(c.Items)
	}
	return n
}

// Find returns the first item with the given name, and its category.
func (l ShoppingList) Find(name string) (ShoppingItem, string, bool) {
	for _, c := range l.Categories {
		for _, item := range c.Items {
			if item.Name == name {
				return item, c.Name, true
			}
		}
	}
	return ShoppingItem{}, "", false
}
