package planner

import (
	"sort"
	"strings"
	"unicode"

	"github.com/chrisdamba/mealplanner/internal/models"
)

// RecipeLookup resolves a recipe id. The shopping list aggregator never loads recipes itself.
type RecipeLookup func(id string) (models.Recipe, bool)

func LookupFromRecipes(recipes []models.Recipe) RecipeLookup {
	byID := make(map[string]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return func(id string) (models.Recipe, bool) {
		r, ok := byID[id]
		return r, ok
	}
}

type categoryKeywords struct {
	name     string
	keywords []string
}

// shoppingCategories is evaluated top to bottom and the first match wins, so the
// order carries meaning:
//   - Frozen is first: "frozen peas" and "frozen spinach" belong in the freezer aisle, not Produce.
//   - Pantry precedes Dairy, Meat and Produce for shelf-stable compounds such as
//     "peanut butter", "coconut milk", "chicken stock" and "tomato paste".
//   - Bakery precedes Produce so "garlic bread" is not filed under garlic.
//
// Keywords match whole words (plural "s"/"es" allowed), so "egg" does not match
// "eggplant" and "butter" does not match "butternut squash".
var shoppingCategories = []categoryKeywords{
	{models.ShoppingFrozen, []string{"frozen", "ice cream", "sorbet"}},
	{models.ShoppingPantry, []string{
		"peanut butter", "almond butter", "coconut milk", "tomato paste", "tomato sauce", "canned",
		"stock", "broth", "oil", "vinegar", "flour", "sugar", "rice", "pasta", "noodle", "spaghetti",
		"lentil", "chickpea", "soy sauce", "honey", "salt", "black pepper", "cumin", "paprika",
		"cinnamon", "oregano", "baking powder", "baking soda", "yeast", "oats", "quinoa", "couscous",
		"cornstarch", "vanilla", "chocolate", "cocoa", "almond", "walnut", "cashew", "peanut",
	}},
	{models.ShoppingBakery, []string{"bread", "bun", "baguette", "tortilla", "pita", "naan", "croissant", "roll", "breadcrumb"}},
	{models.ShoppingDairy, []string{"milk", "cheese", "butter", "cream", "yogurt", "yoghurt", "parmesan", "mozzarella", "feta", "cheddar", "egg", "ghee"}},
	{models.ShoppingMeat, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham", "mince",
		"fish", "salmon", "tuna", "shrimp", "prawn", "cod", "tofu",
	}},
	{models.ShoppingProduce, []string{
		"onion", "garlic", "tomato", "potato", "carrot", "lettuce", "spinach", "pepper", "cucumber",
		"zucchini", "courgette", "mushroom", "lemon", "lime", "apple", "banana", "berries", "strawberry",
		"basil", "parsley", "cilantro", "coriander", "mint", "ginger", "celery", "broccoli", "peas",
		"avocado", "cabbage", "kale", "corn", "eggplant", "aubergine", "squash", "shallot", "scallion",
		"chili", "mango", "orange", "herbs",
	}},
}

// CategorizeIngredient returns the shopping category for an ingredient name.
func CategorizeIngredient(name string) string {
	words := tokenize(name)
	for _, c := range shoppingCategories {
		for _, kw := range c.keywords {
			if containsPhrase(words, tokenize(kw)) {
				return c.name
			}
		}
	}
	return models.ShoppingOther
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		matched := true
		for j, p := range phrase {
			if !wordMatches(words[i+j], p) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func wordMatches(word, keyword string) bool {
	return word == keyword || word == keyword+"s" || word == keyword+"es"
}

type aggregateKey struct {
	name string
	unit string
}

type sourcedIngredient struct {
	ingredient models.Ingredient
	recipeID   string
}

// GenerateShoppingListForWeek aggregates the ingredients of every recipe and
// accompaniment referenced by week. Ingredients with the same name and unit are
// summed, keeping the first-seen unit spelling. The same name in a different
// unit is a separate item since units are never converted. A recipe referenced
// twice contributes twice.
func GenerateShoppingListForWeek(week models.WeekPlan, lookup RecipeLookup) models.ShoppingList {
	list := models.ShoppingList{
		WeekStartDate: week.WeekStartDate,
		Categories:    make([]models.ShoppingCategory, 0),
	}
	if lookup == nil {
		return list
	}

	var ingredients []sourcedIngredient
	for _, a := range week.Assignments {
		for _, id := range []*string{a.RecipeID, a.AccompanimentRecipeID} {
			if id == nil {
				continue
			}
			r, ok := lookup(*id)
			if !ok {
				continue
			}
			for _, ing := range r.Ingredients {
				ingredients = append(ingredients, sourcedIngredient{ingredient: ing, recipeID: r.ID})
			}
		}
	}

	items := make(map[aggregateKey]*models.ShoppingItem)
	var order []aggregateKey
	for _, src := range ingredients {
		name := normalizeName(src.ingredient.Name)
		if name == "" {
			continue
		}
		key := aggregateKey{name: name, unit: strings.ToLower(strings.TrimSpace(src.ingredient.Unit))}
		item, ok := items[key]
		if !ok {
			item = &models.ShoppingItem{Name: name, Unit: strings.TrimSpace(src.ingredient.Unit)}
			items[key] = item
			order = append(order, key)
		}
		item.Quantity += src.ingredient.Quantity
		if !containsString(item.RecipeIDs, src.recipeID) {
			item.RecipeIDs = append(item.RecipeIDs, src.recipeID)
		}
	}

	byCategory := make(map[string][]models.ShoppingItem)
	for _, key := range order {
		item := *items[key]
		sort.Strings(item.RecipeIDs)
		cat := CategorizeIngredient(item.Name)
		byCategory[cat] = append(byCategory[cat], item)
	}

	for name, catItems := range byCategory {
		sort.Slice(catItems, func(i, j int) bool {
			if catItems[i].Name != catItems[j].Name {
				return catItems[i].Name < catItems[j].Name
			}
			return catItems[i].Unit < catItems[j].Unit
		})
		list.Categories = append(list.Categories, models.ShoppingCategory{Name: name, Items: catItems})
	}
	sort.Slice(list.Categories, func(i, j int) bool {
		return list.Categories[i].Name < list.Categories[j].Name
	})

	return list
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
