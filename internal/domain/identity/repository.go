package identity

import (
	"context"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserFilter narrows a user listing. Email and Username match exactly;
// Search matches either field case-insensitively.
type UserFilter struct {
	shared.Filter
	Email    string
	Username string
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create stores a new user; duplicate email or username yields ErrAlreadyExists
	Create(ctx context.Context, user *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindAll returns a page of users ordered by username
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SubscriptionRepository persists follower/author links
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, userID, authorID uuid.UUID) error
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)

	// FollowedAuthorIDs filters candidates down to the authors userID follows
	FollowedAuthorIDs(ctx context.Context, userID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error)

	// FindAuthors returns a page of authors followed by userID, newest link first
	FindAuthors(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*User, int64, error)
}
