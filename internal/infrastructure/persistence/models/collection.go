package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteModel marks a recipe as a user's favorite
type FavoriteModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FavoriteModel) TableName() string {
	return "favorites"
}

// ShoppingCartModel puts a recipe into a user's shopping cart
type ShoppingCartModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShoppingCartModel) TableName() string {
	return "shopping_carts"
}

// All returns every model, in dependency order, for AutoMigrate in tests
// and local tooling.
func All() []any {
	return []any{
		&UserModel{},
		&SubscriptionModel{},
		&TagModel{},
		&IngredientModel{},
		&RecipeModel{},
		&RecipeTagModel{},
		&RecipeIngredientModel{},
		&FavoriteModel{},
		&ShoppingCartModel{},
	}
}
