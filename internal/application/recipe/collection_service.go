package recipe

import (
	"context"
	"errors"
	"fmt"

	appshared "github.com/foodgram/backend/internal/application/shared"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// collectionErrors are the messages reported for one per-user recipe set
type collectionErrors struct {
	exists  *shared.DomainError
	missing *shared.DomainError
}

var (
	favoriteErrors = collectionErrors{
		exists:  shared.NewDomainError("ALREADY_EXISTS", "Recipe is already in favorites"),
		missing: shared.NewDomainError("NOT_FOUND", "Recipe is not in favorites"),
	}
	cartErrors = collectionErrors{
		exists:  shared.NewDomainError("ALREADY_EXISTS", "Recipe is already in the shopping cart"),
		missing: shared.NewDomainError("NOT_FOUND", "Recipe is not in the shopping cart"),
	}
)

// AddFavorite marks a recipe as favorite and returns its short card
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*appshared.ShortRecipeDTO, error) {
	return s.addTo(ctx, s.repos.Favorites, favoriteErrors, userID, recipeID)
}

// RemoveFavorite removes a recipe from favorites
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeFrom(ctx, s.repos.Favorites, favoriteErrors, userID, recipeID)
}

// AddToCart puts a recipe in the shopping cart and returns its short card
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*appshared.ShortRecipeDTO, error) {
	return s.addTo(ctx, s.repos.Carts, cartErrors, userID, recipeID)
}

// RemoveFromCart takes a recipe out of the shopping cart
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeFrom(ctx, s.repos.Carts, cartErrors, userID, recipeID)
}

func (s *RecipeService) addTo(ctx context.Context, set recipe.RecipeCollection, errs collectionErrors, userID, recipeID uuid.UUID) (*appshared.ShortRecipeDTO, error) {
	rec, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := set.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errs.exists
		}
		return nil, fmt.Errorf("failed to add recipe: %w", err)
	}
	card, err := appshared.NewShortRecipeDTO(ctx, s.images, rec)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *RecipeService) removeFrom(ctx context.Context, set recipe.RecipeCollection, errs collectionErrors, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := set.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errs.missing
		}
		return fmt.Errorf("failed to remove recipe: %w", err)
	}
	return nil
}
