package models

import (
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/google/uuid"
)

// TagModel is the persistence model for tags
type TagModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key"`
	Name  string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Color string    `gorm:"type:varchar(7);not null;uniqueIndex"`
	Slug  string    `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the model to a domain Tag
func (m *TagModel) ToDomain() recipe.Tag {
	return recipe.Tag{ID: m.ID, Name: m.Name, Color: m.Color, Slug: m.Slug}
}

// TagModelFromDomain creates a model from a domain Tag
func TagModelFromDomain(t *recipe.Tag) *TagModel {
	return &TagModel{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// IngredientModel is the persistence model for ingredients
type IngredientModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	Name            string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit;index"`
	MeasurementUnit string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
}

// TableName returns the table name for GORM
func (IngredientModel) TableName() string {
	return "ingredients"
}

// ToDomain converts the model to a domain Ingredient
func (m *IngredientModel) ToDomain() recipe.Ingredient {
	return recipe.Ingredient{ID: m.ID, Name: m.Name, MeasurementUnit: m.MeasurementUnit}
}

// IngredientModelFromDomain creates a model from a domain Ingredient
func IngredientModelFromDomain(i *recipe.Ingredient) *IngredientModel {
	return &IngredientModel{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// RecipeModel is the persistence model for recipes. Tags and ingredient
// lines live in their own tables.
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Text        string    `gorm:"type:text;not null"`
	Image       string    `gorm:"type:varchar(500);not null"`
	CookingTime int       `gorm:"not null"`
	PubDate     time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecipeModel) TableName() string {
	return "recipes"
}

// ToDomain converts the model to a domain Recipe without tags or ingredients
func (m *RecipeModel) ToDomain() *recipe.Recipe {
	return &recipe.Recipe{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Name:        m.Name,
		Text:        m.Text,
		Image:       m.Image,
		CookingTime: m.CookingTime,
		PubDate:     m.PubDate,
		UpdatedAt:   m.UpdatedAt,
		Tags:        []recipe.Tag{},
		Ingredients: []recipe.RecipeIngredient{},
	}
}

// RecipeModelFromDomain creates a model from a domain Recipe
func RecipeModelFromDomain(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		PubDate:     r.PubDate,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RecipeTagModel is the recipe/tag join row
type RecipeTagModel struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RecipeTagModel) TableName() string {
	return "recipe_tags"
}

// RecipeIngredientModel is one ingredient line of a recipe
type RecipeIngredientModel struct {
	RecipeID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Amount       int       `gorm:"not null"`
	Position     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}

// ShoppingListRowModel is the scan target of the shopping-list aggregate
type ShoppingListRowModel struct {
	IngredientName string
	Unit           string
	TotalAmount    int64
}

// ToDomain converts the row to a domain ShoppingListRow
func (m ShoppingListRowModel) ToDomain() recipe.ShoppingListRow {
	return recipe.ShoppingListRow{
		IngredientName: m.IngredientName,
		Unit:           m.Unit,
		TotalAmount:    m.TotalAmount,
	}
}
