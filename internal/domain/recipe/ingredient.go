package recipe

import (
	"strings"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Ingredient is a product with its measurement unit. The same product in
// two units is two ingredients.
type Ingredient struct {
	ID              uuid.UUID
	Name            string
	MeasurementUnit string
}

// NewIngredient validates and creates an ingredient
func NewIngredient(name, unit string) (*Ingredient, error) {
	name = NormalizeName(name)
	unit = NormalizeName(unit)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_INGREDIENT_NAME", "Ingredient name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, shared.NewDomainError("INVALID_INGREDIENT_NAME", "Ingredient name cannot exceed 200 characters")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_MEASUREMENT_UNIT", "Measurement unit cannot be empty")
	}
	if utf8.RuneCountInString(unit) > maxNameLength {
		return nil, shared.NewDomainError("INVALID_MEASUREMENT_UNIT", "Measurement unit cannot exceed 200 characters")
	}

	return &Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}, nil
}

// NormalizeName trims and NFC-normalizes text so that composed and
// decomposed spellings (e.g. "й") group as one ingredient.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
