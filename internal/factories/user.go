package factories

import (
	"math/rand"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type UserFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewUserFactory(seed int64) *UserFactory {
	src := rand.NewSource(seed)
	return &UserFactory{fake: faker.NewWithSeed(src), rng: rand.New(src)}
}

// CreateUser builds a user whose preferences start from the configured defaults
// and whose favorites are drawn from catalog.
func (uf *UserFactory) CreateUser(cfg *models.Config, catalog []models.Recipe) models.User {
	prefs := cfg.DefaultUserPreferences()
	prefs.DietaryRestrictions = uf.generateRandomDietaryRestrictions()
	prefs.SkillLevel = uf.randomSkillLevel(prefs.SkillLevel)

	return models.User{
		ID:                cuid.New(),
		Name:              uf.fake.Person().Name(),
		JoinDate:          uf.fake.Time().TimeBetween(cfg.StartDate.AddDate(-1, 0, 0), cfg.StartDate),
		Preferences:       prefs,
		FavoriteRecipeIDs: uf.pickFavorites(catalog, cfg.FavoritesPerUser),
	}
}

func (uf *UserFactory) pickFavorites(catalog []models.Recipe, n int) []string {
	if n <= 0 || n > len(catalog) {
		n = len(catalog)
	}
	ids := make([]string, 0, n)
	for _, i := range uf.rng.Perm(len(catalog))[:n] {
		ids = append(ids, catalog[i].ID)
	}
	return ids
}

// randomSkillLevel keeps the configured level for most users.
func (uf *UserFactory) randomSkillLevel(fallback models.SkillLevel) models.SkillLevel {
	levels := []models.SkillLevel{models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced}
	if uf.fake.IntBetween(1, 4) == 1 {
		return levels[uf.rng.Intn(len(levels))]
	}
	return fallback
}

func (uf *UserFactory) generateRandomDietaryRestrictions() []models.DietaryRestriction {
	restrictions := []string{"Vegetarian", "Vegan", "Gluten-free", "Dairy-free", "Nut-free", "Halal", "Kosher", "peanut", "shellfish", "sesame"}
	restrictCount := uf.fake.IntBetween(0, 2)
	if restrictCount == 0 {
		return nil
	}
	return []models.DietaryRestriction{models.ParseRestriction(restrictions[uf.rng.Intn(len(restrictions))])}
}
