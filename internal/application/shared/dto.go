// Package shared holds the representations that several application
// services return: users as seen by another user, and short recipe cards.
package shared

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/google/uuid"
)

// ImageURLResolver turns a stored image key into a downloadable URL
type ImageURLResolver interface {
	DownloadURL(ctx context.Context, key string) (string, error)
}

// UserDTO is a user as seen by the caller
type UserDTO struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// NewUserDTO maps a user; subscribed tells whether the caller follows them
func NewUserDTO(u *identity.User, subscribed bool) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// ShortRecipeDTO is the compact recipe card used in subscriptions,
// favorites and the shopping cart
type ShortRecipeDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// NewShortRecipeDTO maps a recipe and resolves its image URL
func NewShortRecipeDTO(ctx context.Context, images ImageURLResolver, r *recipe.Recipe) (ShortRecipeDTO, error) {
	url, err := images.DownloadURL(ctx, r.Image)
	if err != nil {
		return ShortRecipeDTO{}, fmt.Errorf("failed to resolve image of recipe %s: %w", r.ID, err)
	}
	return ShortRecipeDTO{
		ID:          r.ID,
		Name:        r.Name,
		Image:       url,
		CookingTime: r.CookingTime,
	}, nil
}
