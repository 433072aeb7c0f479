package recipe

import (
	"time"

	appshared "github.com/foodgram/backend/internal/application/shared"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TagDTO represents a tag
type TagDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// IngredientDTO represents an ingredient
type IngredientDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientDTO is an ingredient line of a recipe
type RecipeIngredientDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeDTO is a full recipe as seen by the caller
type RecipeDTO struct {
	ID               uuid.UUID             `json:"id"`
	Tags             []TagDTO              `json:"tags"`
	Author           appshared.UserDTO     `json:"author"`
	Ingredients      []RecipeIngredientDTO `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
	PubDate          time.Time             `json:"pub_date"`
}

// CreateRecipeInput contains input for publishing a recipe
type CreateRecipeInput struct {
	AuthorID    uuid.UUID
	Name        string
	Text        string
	Image       string // base64 data URI
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []recipe.IngredientAmount
}

// UpdateRecipeInput contains input for editing a recipe. An empty Image
// keeps the current picture.
type UpdateRecipeInput struct {
	ID          uuid.UUID
	EditorID    uuid.UUID
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []recipe.IngredientAmount
}

// ListRecipesInput narrows a recipe listing. Favorited and InCart only
// apply to an authenticated viewer.
type ListRecipesInput struct {
	shared.Filter
	ViewerID  uuid.UUID
	AuthorID  *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
}

func toTagDTO(t recipe.Tag) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func toIngredientDTO(i recipe.Ingredient) IngredientDTO {
	return IngredientDTO{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
