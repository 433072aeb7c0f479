package recipe

import (
	"strings"
	"testing"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems(ids ...uuid.UUID) []IngredientAmount {
	items := make([]IngredientAmount, len(ids))
	for i, id := range ids {
		items[i] = IngredientAmount{IngredientID: id, Amount: 100}
	}
	return items
}

func TestNewRecipe(t *testing.T) {
	author := uuid.New()
	tagID := uuid.New()
	flour, sugar := uuid.New(), uuid.New()

	t.Run("creates recipe with valid input", func(t *testing.T) {
		r, err := NewRecipe(author, " Pancakes ", "Mix and fry", "recipes/a.png", 20,
			[]uuid.UUID{tagID}, validItems(flour, sugar))

		require.NoError(t, err)
		assert.Equal(t, "Pancakes", r.Name)
		assert.Equal(t, author, r.AuthorID)
		assert.Equal(t, []uuid.UUID{tagID}, r.TagIDs())
		assert.Equal(t, []uuid.UUID{flour, sugar}, r.IngredientIDs())
		assert.False(t, r.PubDate.IsZero())
	})

	t.Run("rejects duplicate ingredients", func(t *testing.T) {
		_, err := NewRecipe(author, "Pancakes", "Mix", "img", 20,
			[]uuid.UUID{tagID}, validItems(flour, flour))
		assert.ErrorIs(t, err, ErrDuplicateIngredient)
	})

	t.Run("rejects duplicate tags", func(t *testing.T) {
		_, err := NewRecipe(author, "Pancakes", "Mix", "img", 20,
			[]uuid.UUID{tagID, tagID}, validItems(flour))
		assert.ErrorIs(t, err, ErrDuplicateTag)
	})

	t.Run("requires tags and ingredients", func(t *testing.T) {
		_, err := NewRecipe(author, "Pancakes", "Mix", "img", 20, nil, validItems(flour))
		assert.Error(t, err)

		_, err = NewRecipe(author, "Pancakes", "Mix", "img", 20, []uuid.UUID{tagID}, nil)
		assert.Error(t, err)
	})

	t.Run("requires image", func(t *testing.T) {
		_, err := NewRecipe(author, "Pancakes", "Mix", "", 20, []uuid.UUID{tagID}, validItems(flour))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image")
	})

	t.Run("rejects too long name", func(t *testing.T) {
		_, err := NewRecipe(author, strings.Repeat("x", 201), "Mix", "img", 20, []uuid.UUID{tagID}, validItems(flour))
		assert.Error(t, err)
	})
}

func TestRecipeBounds(t *testing.T) {
	author, tagID, ing := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name        string
		cookingTime int
		amount      int
		wantCode    string
	}{
		{"minimum values", MinCookingTime, MinAmount, ""},
		{"maximum values", MaxCookingTime, MaxAmount, ""},
		{"zero cooking time", 0, 10, "INVALID_COOKING_TIME"},
		{"cooking time above bound", MaxCookingTime + 1, 10, "INVALID_COOKING_TIME"},
		{"zero amount", 10, 0, "INVALID_AMOUNT"},
		{"amount above bound", 10, MaxAmount + 1, "INVALID_AMOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecipe(author, "Soup", "Boil", "img", tt.cookingTime,
				[]uuid.UUID{tagID}, []IngredientAmount{{IngredientID: ing, Amount: tt.amount}})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestRecipe_Update(t *testing.T) {
	author, tagID, ing := uuid.New(), uuid.New(), uuid.New()
	r, err := NewRecipe(author, "Soup", "Boil", "old.png", 30, []uuid.UUID{tagID}, validItems(ing))
	require.NoError(t, err)

	t.Run("only author can update", func(t *testing.T) {
		err := r.Update(uuid.New(), "Stew", "Boil long", "", 60, []uuid.UUID{tagID}, validItems(ing))
		assert.ErrorIs(t, err, ErrNotAuthor)
		assert.Equal(t, "Soup", r.Name)
	})

	t.Run("keeps image when none given", func(t *testing.T) {
		require.NoError(t, r.Update(author, "Stew", "Boil long", "", 60, []uuid.UUID{tagID}, validItems(ing)))
		assert.Equal(t, "Stew", r.Name)
		assert.Equal(t, "old.png", r.Image)
		assert.Equal(t, 60, r.CookingTime)
	})

	t.Run("invalid update leaves recipe untouched", func(t *testing.T) {
		err := r.Update(author, "Broth", "Boil", "new.png", 60, []uuid.UUID{tagID}, validItems(ing, ing))
		assert.ErrorIs(t, err, ErrDuplicateIngredient)
		assert.Equal(t, "Stew", r.Name)
		assert.Equal(t, "old.png", r.Image)
	})
}

func TestRecipe_Resolve(t *testing.T) {
	author := uuid.New()
	tag := Tag{ID: uuid.New(), Name: "Lunch", Color: "#49B64E", Slug: "lunch"}
	flour := Ingredient{ID: uuid.New(), Name: "мука", MeasurementUnit: "г"}

	r, err := NewRecipe(author, "Bread", "Bake", "img", 90, []uuid.UUID{tag.ID},
		[]IngredientAmount{{IngredientID: flour.ID, Amount: 500}})
	require.NoError(t, err)

	t.Run("fails on unknown ingredient", func(t *testing.T) {
		err := r.Resolve([]Tag{tag}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("fills names and units", func(t *testing.T) {
		require.NoError(t, r.Resolve([]Tag{tag}, []Ingredient{flour}))
		assert.Equal(t, "lunch", r.Tags[0].Slug)
		assert.Equal(t, "мука", r.Ingredients[0].Name)
		assert.Equal(t, "г", r.Ingredients[0].MeasurementUnit)
		assert.Equal(t, 500, r.Ingredients[0].Amount)
	})
}

func TestNewTag(t *testing.T) {
	tag, err := NewTag("Завтрак", "#e26c2d", "breakfast")
	require.NoError(t, err)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = NewTag("Lunch", "green", "lunch")
	assert.Error(t, err)

	_, err = NewTag("Lunch", "#49B64E", "lunch time")
	assert.Error(t, err)
}

func TestNewIngredient(t *testing.T) {
	// "й" written as и + combining breve
	ing, err := NewIngredient(" ча\u0438\u0306 ", "г")
	require.NoError(t, err)
	assert.Equal(t, "ча\u0439", ing.Name)

	_, err = NewIngredient("", "г")
	assert.Error(t, err)

	_, err = NewIngredient("salt", "")
	assert.Error(t, err)
}
