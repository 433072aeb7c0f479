package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recipeCollection stores a per-user recipe set in one (user_id, recipe_id) table
type recipeCollection struct {
	db       *gorm.DB
	newModel func(userID, recipeID uuid.UUID) any
	empty    func() any
}

func (c *recipeCollection) Add(ctx context.Context, userID, recipeID uuid.UUID) error {
	return translateError(c.db.WithContext(ctx).Create(c.newModel(userID, recipeID)).Error)
}

func (c *recipeCollection) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := c.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(c.empty())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (c *recipeCollection) Contains(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return found, nil
	}
	var ids []uuid.UUID
	if err := c.db.WithContext(ctx).Model(c.empty()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// GormFavoriteRepository implements recipe.FavoriteRepository
type GormFavoriteRepository struct {
	recipeCollection
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{recipeCollection{
		db: db,
		newModel: func(userID, recipeID uuid.UUID) any {
			return &models.FavoriteModel{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now()}
		},
		empty: func() any { return &models.FavoriteModel{} },
	}}
}

// GormShoppingCartRepository implements recipe.ShoppingCartRepository
type GormShoppingCartRepository struct {
	recipeCollection
}

// NewGormShoppingCartRepository creates a new GormShoppingCartRepository
func NewGormShoppingCartRepository(db *gorm.DB) *GormShoppingCartRepository {
	return &GormShoppingCartRepository{recipeCollection{
		db: db,
		newModel: func(userID, recipeID uuid.UUID) any {
			return &models.ShoppingCartModel{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now()}
		},
		empty: func() any { return &models.ShoppingCartModel{} },
	}}
}

// ShoppingList sums the ingredient amounts of every recipe in the user's
// cart, grouped by (name, unit) and ordered by name.
func (r *GormShoppingCartRepository) ShoppingList(ctx context.Context, userID uuid.UUID) ([]recipe.ShoppingListRow, error) {
	var rows []models.ShoppingListRowModel
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS ingredient_name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}

	out := make([]recipe.ShoppingListRow, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

var (
	_ recipe.FavoriteRepository     = (*GormFavoriteRepository)(nil)
	_ recipe.ShoppingCartRepository = (*GormShoppingCartRepository)(nil)
)
