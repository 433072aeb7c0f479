package recipe

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Bounds for recipe quantities
const (
	MinCookingTime = 1
	MaxCookingTime = 1000
	MinAmount      = 1
	MaxAmount      = 32767

	maxNameLength = 200
)

// Recipe domain errors
var (
	ErrDuplicateIngredient = shared.NewDomainError("DUPLICATE_INGREDIENT", "Ingredients must not repeat")
	ErrDuplicateTag        = shared.NewDomainError("DUPLICATE_TAG", "Tags must not repeat")
	ErrNotAuthor           = shared.NewDomainError("FORBIDDEN", "Only the author can change this recipe")
)

// IngredientAmount is the write-side input for one recipe ingredient
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeIngredient is an ingredient line of a recipe. Name and unit are
// filled in by Resolve or by the repository on load.
type RecipeIngredient struct {
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	Amount          int
}

// Recipe is the aggregate root for a published recipe
type Recipe struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Name        string
	Text        string
	Image       string // object storage key
	CookingTime int
	Tags        []Tag
	Ingredients []RecipeIngredient
	PubDate     time.Time
	UpdatedAt   time.Time
}

// NewRecipe validates and creates a recipe. Tags and ingredients carry ids
// only until Resolve is called.
func NewRecipe(authorID uuid.UUID, name, text, image string, cookingTime int, tagIDs []uuid.UUID, items []IngredientAmount) (*Recipe, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	if strings.TrimSpace(image) == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Recipe image is required")
	}

	now := time.Now()
	r := &Recipe{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Image:     image,
		PubDate:   now,
		UpdatedAt: now,
	}
	if err := r.apply(name, text, cookingTime, tagIDs, items); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the recipe content. Only the author may update.
// An empty image keeps the current one.
func (r *Recipe) Update(editorID uuid.UUID, name, text, image string, cookingTime int, tagIDs []uuid.UUID, items []IngredientAmount) error {
	if err := r.CheckAuthor(editorID); err != nil {
		return err
	}
	if err := r.apply(name, text, cookingTime, tagIDs, items); err != nil {
		return err
	}
	if image != "" {
		r.Image = image
	}
	r.UpdatedAt = time.Now()
	return nil
}

// CheckAuthor returns ErrNotAuthor unless userID wrote the recipe
func (r *Recipe) CheckAuthor(userID uuid.UUID) error {
	if r.AuthorID != userID {
		return ErrNotAuthor
	}
	return nil
}

// Resolve attaches tag and ingredient details looked up by id. Every
// referenced id must be present.
func (r *Recipe) Resolve(tags []Tag, ingredients []Ingredient) error {
	tagByID := make(map[uuid.UUID]Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	for i, t := range r.Tags {
		full, ok := tagByID[t.ID]
		if !ok {
			return shared.NewDomainError("INVALID_TAG", fmt.Sprintf("Tag %s does not exist", t.ID))
		}
		r.Tags[i] = full
	}

	ingByID := make(map[uuid.UUID]Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingByID[ing.ID] = ing
	}
	for i, line := range r.Ingredients {
		full, ok := ingByID[line.IngredientID]
		if !ok {
			return shared.NewDomainError("INVALID_INGREDIENT", fmt.Sprintf("Ingredient %s does not exist", line.IngredientID))
		}
		r.Ingredients[i].Name = full.Name
		r.Ingredients[i].MeasurementUnit = full.MeasurementUnit
	}
	return nil
}

// TagIDs returns the ids of the recipe tags in order
func (r *Recipe) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// IngredientIDs returns the ids of the recipe ingredients in order
func (r *Recipe) IngredientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Ingredients))
	for i, line := range r.Ingredients {
		ids[i] = line.IngredientID
	}
	return ids
}

func (r *Recipe) apply(name, text string, cookingTime int, tagIDs []uuid.UUID, items []IngredientAmount) error {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)

	if name == "" {
		return shared.NewDomainError("INVALID_RECIPE_NAME", "Recipe name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewDomainError("INVALID_RECIPE_NAME", "Recipe name cannot exceed 200 characters")
	}
	if text == "" {
		return shared.NewDomainError("INVALID_RECIPE_TEXT", "Recipe description cannot be empty")
	}
	if cookingTime < MinCookingTime || cookingTime > MaxCookingTime {
		return shared.NewDomainError("INVALID_COOKING_TIME",
			fmt.Sprintf("Cooking time must be between %d and %d minutes", MinCookingTime, MaxCookingTime))
	}

	tags, err := buildTags(tagIDs)
	if err != nil {
		return err
	}
	lines, err := buildIngredients(items)
	if err != nil {
		return err
	}

	r.Name = name
	r.Text = text
	r.CookingTime = cookingTime
	r.Tags = tags
	r.Ingredients = lines
	return nil
}

func buildTags(ids []uuid.UUID) ([]Tag, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_TAGS", "At least one tag is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	tags := make([]Tag, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateTag
		}
		seen[id] = struct{}{}
		tags = append(tags, Tag{ID: id})
	}
	return tags, nil
}

func buildIngredients(items []IngredientAmount) ([]RecipeIngredient, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INGREDIENTS", "At least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	lines := make([]RecipeIngredient, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.IngredientID]; dup {
			return nil, ErrDuplicateIngredient
		}
		if item.Amount < MinAmount || item.Amount > MaxAmount {
			return nil, shared.NewDomainError("INVALID_AMOUNT",
				fmt.Sprintf("Ingredient amount must be between %d and %d", MinAmount, MaxAmount))
		}
		seen[item.IngredientID] = struct{}{}
		lines = append(lines, RecipeIngredient{IngredientID: item.IngredientID, Amount: item.Amount})
	}
	return lines, nil
}
