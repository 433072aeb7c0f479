package identity

import (
	appshared "github.com/foodgram/backend/internal/application/shared"
	"github.com/google/uuid"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// SetPasswordInput contains the input for a password change
type SetPasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// SubscriptionDTO is a followed author with their latest recipes
type SubscriptionDTO struct {
	appshared.UserDTO
	Recipes      []appshared.ShortRecipeDTO `json:"recipes"`
	RecipesCount int64                      `json:"recipes_count"`
}
