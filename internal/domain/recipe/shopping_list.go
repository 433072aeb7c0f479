package recipe

import (
	"context"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShoppingListRow is one aggregated line of a shopping list: the total
// amount of one (ingredient name, unit) pair across every recipe in a cart.
type ShoppingListRow struct {
	IngredientName string
	Unit           string
	TotalAmount    int64
}

// ErrDataUnavailable is returned when the shopping list cannot be computed
var ErrDataUnavailable = shared.NewDomainError("DATA_UNAVAILABLE", "Shopping list data is unavailable")

// ShoppingListAggregator groups and sums cart ingredients. Rows come back
// ordered by ingredient name; an empty cart is an empty slice.
type ShoppingListAggregator interface {
	ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListRow, error)
}
