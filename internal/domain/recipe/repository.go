package recipe

import (
	"context"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tag, error)
	FindAll(ctx context.Context) ([]Tag, error)
}

// IngredientRepository defines the interface for ingredient persistence
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*Ingredient, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Ingredient, error)

	// FindByNamePrefix matches names case-insensitively; an empty prefix
	// returns every ingredient. Results are ordered by name.
	FindByNamePrefix(ctx context.Context, prefix string) ([]Ingredient, error)
}

// RecipeFilter narrows recipe listings
type RecipeFilter struct {
	shared.Filter
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// Create stores the recipe with its tags and ingredient lines
	Create(ctx context.Context, recipe *Recipe) error

	// Update replaces the recipe row, its tags and its ingredient lines
	Update(ctx context.Context, recipe *Recipe) error

	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// FindAll returns a page of recipes, newest first
	FindAll(ctx context.Context, filter RecipeFilter) ([]*Recipe, int64, error)

	// CountByAuthors returns the recipe count per author
	CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// FindLatestByAuthor returns up to limit recipes of the author, newest
	// first. A limit <= 0 means no limit.
	FindLatestByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*Recipe, error)
}

// RecipeCollection is a per-user set of recipes (favorites, shopping cart)
type RecipeCollection interface {
	// Add returns ErrAlreadyExists when the recipe is already in the set
	Add(ctx context.Context, userID, recipeID uuid.UUID) error

	// Remove returns ErrNotFound when the recipe is not in the set
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error

	// Contains reports which of recipeIDs are in the user's set
	Contains(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// FavoriteRepository persists favorites
type FavoriteRepository interface {
	RecipeCollection
}

// ShoppingCartRepository persists shopping carts and aggregates them
type ShoppingCartRepository interface {
	RecipeCollection
	ShoppingListAggregator
}
