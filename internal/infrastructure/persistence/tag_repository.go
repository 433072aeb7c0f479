package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTagRepository implements recipe.TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// Create stores a tag; a duplicate name, color or slug yields ErrAlreadyExists
func (r *GormTagRepository) Create(ctx context.Context, tag *recipe.Tag) error {
	return translateError(r.db.WithContext(ctx).Create(models.TagModelFromDomain(tag)).Error)
}

// FindByID finds a tag by ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	tag := model.ToDomain()
	return &tag, nil
}

// FindByIDs returns the tags that exist among ids
func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Tag, error) {
	if len(ids) == 0 {
		return []recipe.Tag{}, nil
	}
	var rows []models.TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(rows), nil
}

// FindAll returns every tag ordered by name
func (r *GormTagRepository) FindAll(ctx context.Context) ([]recipe.Tag, error) {
	var rows []models.TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(rows), nil
}

func tagsToDomain(rows []models.TagModel) []recipe.Tag {
	tags := make([]recipe.Tag, len(rows))
	for i := range rows {
		tags[i] = rows[i].ToDomain()
	}
	return tags
}
