package persistence

import (
	"context"
	"strings"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormIngredientRepository implements recipe.IngredientRepository using GORM
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GormIngredientRepository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// Create stores an ingredient; a duplicate (name, unit) yields ErrAlreadyExists
func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *recipe.Ingredient) error {
	return translateError(r.db.WithContext(ctx).Create(models.IngredientModelFromDomain(ingredient)).Error)
}

// FindByID finds an ingredient by ID
func (r *GormIngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Ingredient, error) {
	var model models.IngredientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	ing := model.ToDomain()
	return &ing, nil
}

// FindByIDs returns the ingredients that exist among ids
func (r *GormIngredientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Ingredient, error) {
	if len(ids) == 0 {
		return []recipe.Ingredient{}, nil
	}
	var rows []models.IngredientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return ingredientsToDomain(rows), nil
}

// FindByNamePrefix matches names case-insensitively, ordered by name
func (r *GormIngredientRepository) FindByNamePrefix(ctx context.Context, prefix string) ([]recipe.Ingredient, error) {
	query := r.db.WithContext(ctx).Model(&models.IngredientModel{})
	if prefix = recipe.NormalizeName(prefix); prefix != "" {
		folded := cases.Lower(language.Und).String(prefix)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(folded)+"%")
	}

	var rows []models.IngredientModel
	if err := query.Order("name ASC").Order("measurement_unit ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return ingredientsToDomain(rows), nil
}

func ingredientsToDomain(rows []models.IngredientModel) []recipe.Ingredient {
	out := make([]recipe.Ingredient, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
