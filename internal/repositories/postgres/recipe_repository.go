package postgres

import (
	"context"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

var recipeColumns = []string{
	"id", "title", "course_type", "complexity", "prep_minutes", "cook_minutes",
	"cuisine", "dietary_tags", "accepts_accompaniment",
	"preferred_accompaniment_categories", "accompaniment_category", "ingredients",
}

func recipeValues(r *models.Recipe) []interface{} {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return []interface{}{
		r.ID,
		r.Title,
		string(r.CourseType),
		string(r.Complexity),
		r.PrepMinutes,
		r.CookMinutes,
		r.Cuisine.String(),
		tagStrings(r.DietaryTags),
		r.AcceptsAccompaniment,
		categoryStrings(r.PreferredAccompanimentCategories),
		string(r.AccompanimentCategory),
		ingredients,
	}
}

func (r *RecipeRepository) BulkCreate(ctx context.Context, recipes []*models.Recipe) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"recipes"},
		recipeColumns,
		pgx.CopyFromSlice(len(recipes), func(i int) ([]interface{}, error) {
			return recipeValues(recipes[i]), nil
		}),
	)
	return err
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	query := `
        INSERT INTO recipes (
            id, title, course_type, complexity, prep_minutes, cook_minutes,
            cuisine, dietary_tags, accepts_accompaniment,
            preferred_accompaniment_categories, accompaniment_category, ingredients
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
        )
    `
	_, err := r.pool.Exec(ctx, query, recipeValues(recipe)...)
	return err
}

func (r *RecipeRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
        SELECT
            id, title, course_type, complexity, prep_minutes, cook_minutes,
            cuisine, dietary_tags, accepts_accompaniment,
            preferred_accompaniment_categories, accompaniment_category, ingredients
        FROM recipes
        WHERE id = ANY($1)
    `
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*models.Recipe, len(ids))
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		byID[recipe.ID] = recipe
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recipes := make([]*models.Recipe, 0, len(byID))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	var (
		recipe                                   models.Recipe
		courseType, complexity, cuisine, sideCat string
		tags, preferred                          []string
	)
	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&courseType,
		&complexity,
		&recipe.PrepMinutes,
		&recipe.CookMinutes,
		&cuisine,
		&tags,
		&recipe.AcceptsAccompaniment,
		&preferred,
		&sideCat,
		&recipe.Ingredients,
	)
	if err != nil {
		return nil, err
	}
	recipe.CourseType = models.CourseType(courseType)
	recipe.Complexity = models.Complexity(complexity)
	recipe.Cuisine = models.ParseCuisine(cuisine)
	recipe.AccompanimentCategory = models.AccompanimentCategory(sideCat)
	for _, t := range tags {
		recipe.DietaryTags = append(recipe.DietaryTags, models.DietaryTag(t))
	}
	for _, c := range preferred {
		recipe.PreferredAccompanimentCategories = append(recipe.PreferredAccompanimentCategories, models.AccompanimentCategory(c))
	}
	return &recipe, nil
}

func (r *RecipeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM recipes").Scan(&count)
	return count, err
}

func (r *RecipeRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE recipes CASCADE")
	return err
}

func tagStrings(tags []models.DietaryTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}

func categoryStrings(cats []models.AccompanimentCategory) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}
