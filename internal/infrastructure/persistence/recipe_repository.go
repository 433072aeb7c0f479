package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecipeRepository implements recipe.RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create stores the recipe with its tags and ingredient lines
func (r *GormRecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.RecipeModelFromDomain(rec)).Error; err != nil {
			return translateError(err)
		}
		return saveRecipeChildren(tx, rec)
	})
}

// Update replaces the recipe row and all of its children
func (r *GormRecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RecipeModel{}).Where("id = ?", rec.ID).Updates(map[string]any{
			"name":         rec.Name,
			"text":         rec.Text,
			"image":        rec.Image,
			"cooking_time": rec.CookingTime,
			"updated_at":   rec.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := deleteRecipeChildren(tx, rec.ID); err != nil {
			return err
		}
		return saveRecipeChildren(tx, rec)
	})
}

// Delete removes the recipe together with its lines, favorites and cart entries
func (r *GormRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRecipeChildren(tx, id); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.FavoriteModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.RecipeModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a recipe with its tags and ingredients
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model models.RecipeModel
	db := r.db.WithContext(ctx)
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	recipes := []*recipe.Recipe{model.ToDomain()}
	if err := loadRecipeRelations(db, recipes); err != nil {
		return nil, err
	}
	return recipes[0], nil
}

// FindAll returns a filtered page of recipes, newest first
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter recipe.RecipeFilter) ([]*recipe.Recipe, int64, error) {
	filter.Filter = filter.Filter.Normalize()
	db := r.db.WithContext(ctx)

	query := db.Model(&models.RecipeModel{})
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != nil {
		query = query.Where("recipes.id IN (?)",
			db.Model(&models.FavoriteModel{}).Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		query = query.Where("recipes.id IN (?)",
			db.Model(&models.ShoppingCartModel{}).Select("recipe_id").Where("user_id = ?", *filter.InCartOf))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RecipeModel
	if err := query.Order("recipes.pub_date DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	recipes := recipesToDomain(rows)
	if err := loadRecipeRelations(db, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// CountByAuthors returns the recipe count per author
func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&models.RecipeModel{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// FindLatestByAuthor returns up to limit recipes of the author, newest first
func (r *GormRecipeRepository) FindLatestByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("pub_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.RecipeModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return recipesToDomain(rows), nil
}

func saveRecipeChildren(tx *gorm.DB, rec *recipe.Recipe) error {
	tags := make([]models.RecipeTagModel, len(rec.Tags))
	for i, t := range rec.Tags {
		tags[i] = models.RecipeTagModel{RecipeID: rec.ID, TagID: t.ID, Position: i}
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return translateError(err)
		}
	}

	lines := make([]models.RecipeIngredientModel, len(rec.Ingredients))
	for i, line := range rec.Ingredients {
		lines[i] = models.RecipeIngredientModel{
			RecipeID:     rec.ID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
			Position:     i,
		}
	}
	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

func deleteRecipeChildren(tx *gorm.DB, recipeID uuid.UUID) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTagModel{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredientModel{}).Error
}

// loadRecipeRelations fills tags and ingredient lines for a batch of
// recipes with one query each.
func loadRecipeRelations(db *gorm.DB, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(recipes))
	byID := make(map[uuid.UUID]*recipe.Recipe, len(recipes))
	for i, rec := range recipes {
		ids[i] = rec.ID
		byID[rec.ID] = rec
	}

	var tagRows []struct {
		RecipeID uuid.UUID
		ID       uuid.UUID
		Name     string
		Color    string
		Slug     string
	}
	if err := db.Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", ids).
		Order("recipe_tags.position ASC").
		Scan(&tagRows).Error; err != nil {
		return err
	}
	for _, row := range tagRows {
		rec := byID[row.RecipeID]
		rec.Tags = append(rec.Tags, recipe.Tag{ID: row.ID, Name: row.Name, Color: row.Color, Slug: row.Slug})
	}

	var lineRows []struct {
		RecipeID        uuid.UUID
		IngredientID    uuid.UUID
		Amount          int
		Name            string
		MeasurementUnit string
	}
	if err := db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, recipe_ingredients.amount, ingredients.name, ingredients.measurement_unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", ids).
		Order("recipe_ingredients.position ASC").
		Scan(&lineRows).Error; err != nil {
		return err
	}
	for _, row := range lineRows {
		rec := byID[row.RecipeID]
		rec.Ingredients = append(rec.Ingredients, recipe.RecipeIngredient{
			IngredientID:    row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return nil
}

func recipesToDomain(rows []models.RecipeModel) []*recipe.Recipe {
	out := make([]*recipe.Recipe, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
