package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements identity.SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create stores a subscription; a repeated pair yields ErrAlreadyExists
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *identity.Subscription) error {
	return translateError(r.db.WithContext(ctx).Create(models.SubscriptionModelFromDomain(sub)).Error)
}

// Delete removes a subscription; a missing pair yields ErrNotFound
func (r *GormSubscriptionRepository) Delete(ctx context.Context, userID, authorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.SubscriptionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists reports whether userID follows authorID
func (r *GormSubscriptionRepository) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowedAuthorIDs returns which candidate authors userID follows
func (r *GormSubscriptionRepository) FollowedAuthorIDs(ctx context.Context, userID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	followed := make(map[uuid.UUID]bool, len(candidates))
	if len(candidates) == 0 || userID == uuid.Nil {
		return followed, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND author_id IN ?", userID, candidates).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

// FindAuthors returns a page of followed authors, newest subscription first
func (r *GormSubscriptionRepository) FindAuthors(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*identity.User, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	if err := query.Select("users.*").
		Order("subscriptions.created_at DESC").
		Order("users.username ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return usersToDomain(rows), total, nil
}
