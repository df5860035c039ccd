package factories

import (
	"math/rand"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

// RecipeFactory builds synthetic recipe catalogues. A factory created with the
// same seed produces the same recipes apart from their ids.
type RecipeFactory struct {
	fake faker.Faker
}

func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

var mainCourseNames = map[models.CuisineKind][]string{
	models.CuisineItalian:       {"Spaghetti Carbonara", "Lasagna", "Chicken Cacciatore", "Mushroom Risotto"},
	models.CuisineIndian:        {"Chicken Tikka Masala", "Vegetable Curry", "Beef Madras", "Paneer Butter Masala"},
	models.CuisineAmerican:      {"Cheeseburger", "BBQ Ribs", "Meatloaf", "Mac and Cheese"},
	models.CuisineJapanese:      {"Teriyaki Salmon", "Ramen", "Katsu Curry", "Chicken Donburi"},
	models.CuisineMexican:       {"Tacos", "Burrito", "Enchiladas", "Chili con Carne"},
	models.CuisineChinese:       {"Kung Pao Chicken", "Mapo Tofu", "Sweet and Sour Pork", "Beef and Broccoli"},
	models.CuisineThai:          {"Pad Thai", "Green Curry", "Massaman Curry", "Basil Chicken"},
	models.CuisineGreek:         {"Moussaka", "Souvlaki", "Pastitsio", "Lamb Kleftiko"},
	models.CuisineFrench:        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Duck Confit"},
	models.CuisineMediterranean: {"Falafel Plate", "Shakshuka", "Grilled Halloumi", "Stuffed Peppers"},
}

var (
	appetizerNames = []string{"Bruschetta", "Miso Soup", "Spring Rolls", "Hummus", "Guacamole", "Tomato Soup", "Caprese Salad", "Dumplings"}
	dessertNames   = []string{"Tiramisu", "Apple Pie", "Baklava", "Creme Brulee", "Mango Sticky Rice", "Chocolate Mousse", "Panna Cotta", "Cheesecake"}
	sideNames      = map[models.AccompanimentCategory][]string{
		models.AccompanimentPasta:     {"Buttered Noodles", "Orzo"},
		models.AccompanimentRice:      {"Steamed Rice", "Pilau Rice", "Coconut Rice"},
		models.AccompanimentFries:     {"French Fries", "Sweet Potato Fries"},
		models.AccompanimentSalad:     {"Green Salad", "Greek Salad", "Coleslaw"},
		models.AccompanimentBread:     {"Garlic Bread", "Naan", "Cornbread"},
		models.AccompanimentVegetable: {"Roasted Vegetables", "Steamed Broccoli", "Glazed Carrots"},
	}
	accompanimentCategories = []models.AccompanimentCategory{
		models.AccompanimentPasta, models.AccompanimentRice, models.AccompanimentFries,
		models.AccompanimentSalad, models.AccompanimentBread, models.AccompanimentVegetable,
	}
)

// ingredient pools keyed by the aisle they shop under
var ingredientPools = [][]models.Ingredient{
	{{Name: "onion", Unit: "whole"}, {Name: "garlic", Unit: "clove"}, {Name: "tomato", Unit: "whole"}, {Name: "carrot", Unit: "whole"}, {Name: "spinach", Unit: "g"}, {Name: "lemon", Unit: "whole"}, {Name: "fresh basil", Unit: "bunch"}},
	{{Name: "olive oil", Unit: "tbsp"}, {Name: "rice", Unit: "g"}, {Name: "flour", Unit: "g"}, {Name: "chicken stock", Unit: "ml"}, {Name: "sugar", Unit: "g"}, {Name: "soy sauce", Unit: "tbsp"}, {Name: "chickpeas", Unit: "can"}},
	{{Name: "milk", Unit: "ml"}, {Name: "butter", Unit: "g"}, {Name: "eggs", Unit: "whole"}, {Name: "parmesan", Unit: "g"}, {Name: "yogurt", Unit: "g"}},
	{{Name: "chicken breast", Unit: "g"}, {Name: "beef mince", Unit: "g"}, {Name: "salmon fillet", Unit: "whole"}, {Name: "bacon", Unit: "slice"}, {Name: "tofu", Unit: "g"}},
	{{Name: "frozen peas", Unit: "g"}, {Name: "vanilla ice cream", Unit: "scoop"}},
	{{Name: "bread", Unit: "slice"}, {Name: "tortilla", Unit: "whole"}},
}

// CreateRecipe builds one recipe of the given course.
func (rf *RecipeFactory) CreateRecipe(course models.CourseType) models.Recipe {
	cuisine := models.KnownCuisines[rf.fake.IntBetween(0, len(models.KnownCuisines)-1)]
	recipe := models.Recipe{
		ID:          cuid.New(),
		CourseType:  course,
		Complexity:  rf.randomComplexity(),
		PrepMinutes: rf.fake.IntBetween(5, 30),
		CookMinutes: rf.fake.IntBetween(0, 60),
		Cuisine:     models.NewCuisine(cuisine),
		DietaryTags: rf.randomDietaryTags(),
		Ingredients: rf.randomIngredients(),
	}

	switch course {
	case models.CourseMain:
		names := mainCourseNames[cuisine]
		recipe.Title = names[rf.fake.IntBetween(0, len(names)-1)]
		recipe.AcceptsAccompaniment = rf.fake.Bool()
		if recipe.AcceptsAccompaniment {
			recipe.PreferredAccompanimentCategories = rf.randomAccompanimentCategories()
		}
	case models.CourseAppetizer:
		recipe.Title = appetizerNames[rf.fake.IntBetween(0, len(appetizerNames)-1)]
		recipe.CookMinutes = rf.fake.IntBetween(0, 20)
	case models.CourseDessert:
		recipe.Title = dessertNames[rf.fake.IntBetween(0, len(dessertNames)-1)]
	case models.CourseAccompaniment:
		cat := accompanimentCategories[rf.fake.IntBetween(0, len(accompanimentCategories)-1)]
		names := sideNames[cat]
		recipe.Title = names[rf.fake.IntBetween(0, len(names)-1)]
		recipe.AccompanimentCategory = cat
		recipe.Complexity = models.ComplexitySimple
	}

	return recipe
}

// CreateCatalog builds n recipes with roughly 45% mains, 20% appetizers, 20%
// desserts and 15% accompaniments.
func (rf *RecipeFactory) CreateCatalog(n int) []models.Recipe {
	recipes := make([]models.Recipe, 0, n)
	for i := 0; i < n; i++ {
		recipes = append(recipes, rf.CreateRecipe(rf.randomCourse()))
	}
	return recipes
}

func (rf *RecipeFactory) randomCourse() models.CourseType {
	r := rf.fake.IntBetween(1, 100)
	switch {
	case r <= 45:
		return models.CourseMain
	case r <= 65:
		return models.CourseAppetizer
	case r <= 85:
		return models.CourseDessert
	default:
		return models.CourseAccompaniment
	}
}

func (rf *RecipeFactory) randomComplexity() models.Complexity {
	r := rf.fake.IntBetween(1, 10)
	switch {
	case r <= 5:
		return models.ComplexitySimple
	case r <= 8:
		return models.ComplexityModerate
	default:
		return models.ComplexityComplex
	}
}

// randomDietaryTags leaves about one recipe in ten untagged.
func (rf *RecipeFactory) randomDietaryTags() []models.DietaryTag {
	if rf.fake.IntBetween(1, 10) == 1 {
		return nil
	}
	var tags []models.DietaryTag
	for _, tag := range models.StandardDietaryTags {
		if rf.fake.IntBetween(1, 3) == 1 {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, models.DietaryNutFree)
	}
	return tags
}

func (rf *RecipeFactory) randomIngredients() []models.Ingredient {
	count := rf.fake.IntBetween(2, 6)
	ingredients := make([]models.Ingredient, 0, count)
	seen := make(map[string]bool, count)
	for len(ingredients) < count {
		pool := ingredientPools[rf.fake.IntBetween(0, len(ingredientPools)-1)]
		ing := pool[rf.fake.IntBetween(0, len(pool)-1)]
		if seen[ing.Name] {
			continue
		}
		seen[ing.Name] = true
		ing.Quantity = rf.fake.Float64(0, 1, 4)
		if ing.Unit == "g" || ing.Unit == "ml" {
			ing.Quantity *= 100
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients
}

func (rf *RecipeFactory) randomAccompanimentCategories() []models.AccompanimentCategory {
	count := rf.fake.IntBetween(1, 2)
	cats := make([]models.AccompanimentCategory, 0, count)
	for len(cats) < count {
		cat := accompanimentCategories[rf.fake.IntBetween(0, len(accompanimentCategories)-1)]
		if !containsCategory(cats, cat) {
			cats = append(cats, cat)
		}
	}
	return cats
}

func containsCategory(cats []models.AccompanimentCategory, cat models.AccompanimentCategory) bool {
	for _, c := range cats {
		if c == cat {
			return true
		}
	}
	return false
}
