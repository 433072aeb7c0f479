package identity

import (
	"time"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrSelfSubscription is returned when a user tries to follow themselves
var ErrSelfSubscription = shared.NewDomainError("SELF_SUBSCRIPTION", "You cannot subscribe to yourself")

// Subscription links a follower to an author. The pair is unique.
type Subscription struct {
	UserID    uuid.UUID
	AuthorID  uuid.UUID
	CreatedAt time.Time
}

// NewSubscription validates and creates a follower/author link
func NewSubscription(userID, authorID uuid.UUID) (*Subscription, error) {
	if userID == uuid.Nil || authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User and author are required")
	}
	if userID == authorID {
		return nil, ErrSelfSubscription
	}
	return &Subscription{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}, nil
}
