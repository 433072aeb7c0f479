package models

import (
	"time"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for users
type UserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"`
	FirstName    string `gorm:"type:varchar(150);not null"`
	LastName     string `gorm:"type:varchar(150);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		Username:     m.Username,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
	}
}

// UserModelFromDomain creates a model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// SubscriptionModel links a follower to an author
type SubscriptionModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// SubscriptionModelFromDomain creates a model from a domain Subscription
func SubscriptionModelFromDomain(s *identity.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		UserID:    s.UserID,
		AuthorID:  s.AuthorID,
		CreatedAt: s.CreatedAt,
	}
}
