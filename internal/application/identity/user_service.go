package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	appshared "github.com/foodgram/backend/internal/application/shared"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errUserNotFound         = shared.NewDomainError("NOT_FOUND", "User not found")
	errSubscriptionNotFound = shared.NewDomainError("NOT_FOUND", "You are not subscribed to this user")
	errAlreadySubscribed    = shared.NewDomainError("ALREADY_EXISTS", "You are already subscribed to this user")
)

// TokenRevoker invalidates every token issued to a user before now
type TokenRevoker interface {
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
}

// UserService handles users and subscriptions
type UserService struct {
	users    identity.UserRepository
	subs     identity.SubscriptionRepository
	recipes  recipe.RecipeRepository
	images   appshared.ImageURLResolver
	revoker  TokenRevoker
	tokenTTL time.Duration
}

// NewUserService creates a new user service. tokenTTL is the access token
// lifetime; revocations are kept that long.
func NewUserService(
	users identity.UserRepository,
	subs identity.SubscriptionRepository,
	recipes recipe.RecipeRepository,
	images appshared.ImageURLResolver,
	revoker TokenRevoker,
	tokenTTL time.Duration,
) *UserService {
	return &UserService{
		users:    users,
		subs:     subs,
		recipes:  recipes,
		images:   images,
		revoker:  revoker,
		tokenTTL: tokenTTL,
	}
}

// Register creates a new user
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*appshared.UserDTO, error) {
	user, err := identity.NewUser(input.Email, input.Username, input.FirstName, input.LastName, input.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	exists, err = s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Username or email is already taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.L(ctx).Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	dto := appshared.NewUserDTO(user, false)
	return &dto, nil
}

// Get returns a user as seen by viewerID; uuid.Nil is an anonymous viewer
func (s *UserService) Get(ctx context.Context, viewerID, id uuid.UUID) (*appshared.UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.isSubscribed(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	dto := appshared.NewUserDTO(user, subscribed)
	return &dto, nil
}

// Me returns the caller's own profile
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*appshared.UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := appshared.NewUserDTO(user, false)
	return &dto, nil
}

// List returns a page of users ordered by username
func (s *UserService) List(ctx context.Context, viewerID uuid.UUID, filter identity.UserFilter) (shared.Paginated[appshared.UserDTO], error) {
	filter.Filter = filter.Normalize()
	users, total, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[appshared.UserDTO]{}, fmt.Errorf("failed to list users: %w", err)
	}

	followed, err := s.followed(ctx, viewerID, users)
	if err != nil {
		return shared.Paginated[appshared.UserDTO]{}, err
	}

	items := make([]appshared.UserDTO, len(users))
	for i, u := range users {
		items[i] = appshared.NewUserDTO(u, followed[u.ID])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// SetPassword replaces the caller's password and revokes their tokens
func (s *UserService) SetPassword(ctx context.Context, input SetPasswordInput) error {
	user, err := s.findUser(ctx, input.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.revoker.AddUserTokensToBlacklist(ctx, user.ID.String(), s.tokenTTL); err != nil {
		logger.L(ctx).Error("Failed to revoke tokens after password change",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	logger.L(ctx).Info("User password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// Subscribe makes userID follow authorID and returns the author card
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*SubscriptionDTO, error) {
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	sub, err := identity.NewSubscription(userID, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	counts, err := s.recipes.CountByAuthors(ctx, []uuid.UUID{authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	dto, err := s.subscriptionDTO(ctx, author, counts[authorID], recipesLimit)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("User subscribed",
		zap.String("user_id", userID.String()),
		zap.String("author_id", authorID.String()))
	return dto, nil
}

// Unsubscribe removes the link between userID and authorID
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}
	if err := s.subs.Delete(ctx, userID, authorID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errSubscriptionNotFound
		}
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}

// Subscriptions returns the authors userID follows, each with their recipe
// count and up to recipesLimit latest recipes. A limit <= 0 returns all.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, filter shared.Filter, recipesLimit int) (shared.Paginated[SubscriptionDTO], error) {
	filter = filter.Normalize()
	authors, total, err := s.subs.FindAuthors(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[SubscriptionDTO]{}, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return shared.Paginated[SubscriptionDTO]{}, fmt.Errorf("failed to count recipes: %w", err)
	}

	items := make([]SubscriptionDTO, 0, len(authors))
	for _, a := range authors {
		dto, err := s.subscriptionDTO(ctx, a, counts[a.ID], recipesLimit)
		if err != nil {
			return shared.Paginated[SubscriptionDTO]{}, err
		}
		items = append(items, *dto)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *UserService) subscriptionDTO(ctx context.Context, author *identity.User, count int64, recipesLimit int) (*SubscriptionDTO, error) {
	latest, err := s.recipes.FindLatestByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes of %s: %w", author.ID, err)
	}
	cards := make([]appshared.ShortRecipeDTO, 0, len(latest))
	for _, r := range latest {
		card, err := appshared.NewShortRecipeDTO(ctx, s.images, r)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return &SubscriptionDTO{
		UserDTO:      appshared.NewUserDTO(author, true),
		Recipes:      cards,
		RecipesCount: count,
	}, nil
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *UserService) isSubscribed(ctx context.Context, viewerID, authorID uuid.UUID) (bool, error) {
	if viewerID == uuid.Nil || viewerID == authorID {
		return false, nil
	}
	ok, err := s.subs.Exists(ctx, viewerID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return ok, nil
}

func (s *UserService) followed(ctx context.Context, viewerID uuid.UUID, users []*identity.User) (map[uuid.UUID]bool, error) {
	if viewerID == uuid.Nil || len(users) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := s.subs.FollowedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	return followed, nil
}
