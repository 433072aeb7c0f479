package persistence

import (
	"context"
	"testing"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRecipeRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)

	author := f.user(t, "chef")
	breakfast := f.tag(t, "Breakfast", "#E26C2D", "breakfast")
	dinner := f.tag(t, "Dinner", "#49B64E", "dinner")
	flour := f.ingredient(t, "flour", "g")
	eggs := f.ingredient(t, "eggs", "pcs")

	rec := f.recipe(t, author.ID, "pancakes",
		[]uuid.UUID{dinner.ID, breakfast.ID},
		recipe.IngredientAmount{IngredientID: flour.ID, Amount: 200},
		recipe.IngredientAmount{IngredientID: eggs.ID, Amount: 2},
	)

	t.Run("find by id loads relations in order", func(t *testing.T) {
		found, err := f.recipes.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "pancakes", found.Name)
		assert.Equal(t, author.ID, found.AuthorID)
		require.Len(t, found.Tags, 2)
		assert.Equal(t, "dinner", found.Tags[0].Slug)
		assert.Equal(t, "breakfast", found.Tags[1].Slug)
		require.Len(t, found.Ingredients, 2)
		assert.Equal(t, "flour", found.Ingredients[0].Name)
		assert.Equal(t, "g", found.Ingredients[0].MeasurementUnit)
		assert.Equal(t, 200, found.Ingredients[0].Amount)
		assert.Equal(t, "eggs", found.Ingredients[1].Name)
	})

	t.Run("find missing recipe", func(t *testing.T) {
		_, err := f.recipes.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update replaces children", func(t *testing.T) {
		require.NoError(t, rec.Update(author.ID, "crepes", "Thin", "", 10,
			[]uuid.UUID{breakfast.ID},
			[]recipe.IngredientAmount{{IngredientID: eggs.ID, Amount: 3}}))
		require.NoError(t, f.recipes.Update(ctx, rec))

		found, err := f.recipes.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "crepes", found.Name)
		assert.Equal(t, 10, found.CookingTime)
		assert.Equal(t, "recipes/pancakes.png", found.Image)
		require.Len(t, found.Tags, 1)
		require.Len(t, found.Ingredients, 1)
		assert.Equal(t, 3, found.Ingredients[0].Amount)
	})

	t.Run("update missing recipe", func(t *testing.T) {
		ghost, err := recipe.NewRecipe(author.ID, "ghost", "boo", "x.png", 1, nil,
			[]recipe.IngredientAmount{{IngredientID: eggs.ID, Amount: 1}})
		require.NoError(t, err)
		assert.ErrorIs(t, f.recipes.Update(ctx, ghost), shared.ErrNotFound)
	})

	t.Run("delete removes collections", func(t *testing.T) {
		require.NoError(t, f.carts.Add(ctx, author.ID, rec.ID))
		require.NoError(t, f.favorites.Add(ctx, author.ID, rec.ID))

		require.NoError(t, f.recipes.Delete(ctx, rec.ID))

		_, err := f.recipes.FindByID(ctx, rec.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		rows, err := f.carts.ShoppingList(ctx, author.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)

		assert.ErrorIs(t, f.recipes.Delete(ctx, rec.ID), shared.ErrNotFound)
	})
}

func TestGormRecipeRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	lunch := f.tag(t, "Lunch", "#8775D2", "lunch")
	salt := f.ingredient(t, "salt", "g")
	line := recipe.IngredientAmount{IngredientID: salt.ID, Amount: 1}

	soup := f.recipe(t, alice.ID, "soup", []uuid.UUID{lunch.ID}, line)
	stew := f.recipe(t, alice.ID, "stew", nil, line)
	salad := f.recipe(t, bob.ID, "salad", []uuid.UUID{lunch.ID}, line)

	require.NoError(t, f.favorites.Add(ctx, bob.ID, soup.ID))
	require.NoError(t, f.carts.Add(ctx, alice.ID, salad.ID))

	names := func(recipes []*recipe.Recipe) []string {
		out := make([]string, len(recipes))
		for i, r := range recipes {
			out[i] = r.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter recipe.RecipeFilter
		want   []string
		total  int64
	}{
		{"newest first", recipe.RecipeFilter{Filter: shared.DefaultFilter()}, []string{"salad", "stew", "soup"}, 3},
		{"by author", recipe.RecipeFilter{Filter: shared.DefaultFilter(), AuthorID: &alice.ID}, []string{"stew", "soup"}, 2},
		{"by tag", recipe.RecipeFilter{Filter: shared.DefaultFilter(), TagSlugs: []string{"lunch"}}, []string{"salad", "soup"}, 2},
		{"favorited", recipe.RecipeFilter{Filter: shared.DefaultFilter(), FavoritedBy: &bob.ID}, []string{"soup"}, 1},
		{"in cart", recipe.RecipeFilter{Filter: shared.DefaultFilter(), InCartOf: &alice.ID}, []string{"salad"}, 1},
		{"second page", recipe.RecipeFilter{Filter: shared.Filter{Page: 2, PageSize: 2}}, []string{"soup"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, total, err := f.recipes.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.want, names(recipes))
		})
	}

	t.Run("count by authors", func(t *testing.T) {
		counts, err := f.recipes.CountByAuthors(ctx, []uuid.UUID{alice.ID, bob.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[alice.ID])
		assert.Equal(t, int64(1), counts[bob.ID])
		assert.Len(t, counts, 2)
	})

	t.Run("latest by author", func(t *testing.T) {
		latest, err := f.recipes.FindLatestByAuthor(ctx, alice.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"stew"}, names(latest))

		all, err := f.recipes.FindLatestByAuthor(ctx, alice.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{stew.Name, soup.Name}, names(all))
	})
}

func TestGormIngredientRepository_FindByNamePrefix(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)

	f.ingredient(t, "Sugar", "g")
	f.ingredient(t, "sugar", "tbsp")
	f.ingredient(t, "salt", "g")
	f.ingredient(t, "50%_cream", "ml")

	tests := []struct {
		prefix string
		want   int
	}{
		{"", 4},
		{"su", 2},
		{"  SU ", 2},
		{"s", 3},
		{"50%", 1},
		{"5_", 0},
		{"pepper", 0},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			found, err := f.ingredients.FindByNamePrefix(ctx, tt.prefix)
			require.NoError(t, err)
			assert.Len(t, found, tt.want)
		})
	}

	t.Run("duplicate name and unit", func(t *testing.T) {
		ing, err := recipe.NewIngredient("salt", "g")
		require.NoError(t, err)
		assert.ErrorIs(t, f.ingredients.Create(ctx, ing), shared.ErrAlreadyExists)
	})
}

func TestGormTagRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)

	lunch := f.tag(t, "Lunch", "#8775d2", "lunch")
	f.tag(t, "Breakfast", "#E26C2D", "breakfast")

	found, err := f.tags.FindByID(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "#8775D2", found.Color)

	_, err = f.tags.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	all, err := f.tags.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := f.tags.FindByIDs(ctx, []uuid.UUID{lunch.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, some, 1)

	dup, err := recipe.NewTag("Lunch", "#000000", "lunch-2")
	require.NoError(t, err)
	assert.ErrorIs(t, f.tags.Create(ctx, dup), shared.ErrAlreadyExists)
}
