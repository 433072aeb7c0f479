package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of identity.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *identity.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID, authorID uuid.UUID) error {
	return m.Called(ctx, userID, authorID).Error(0)
}

func (m *MockSubscriptionRepository) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) FollowedAuthorIDs(ctx context.Context, userID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, userID, candidates)
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAuthors(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

// MockRecipeRepository mocks the recipe queries used for subscriptions
type MockRecipeRepository struct {
	mock.Mock
	recipe.RecipeRepository
}

func (m *MockRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, authorIDs)
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockRecipeRepository) FindLatestByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]*recipe.Recipe), args.Error(1)
}

type fakeImages struct{}

func (fakeImages) DownloadURL(_ context.Context, key string) (string, error) {
	return "http://media.test/" + key, nil
}

// MockTokenRevoker is a mock implementation of TokenRevoker
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	return m.Called(ctx, userID, ttl).Error(0)
}

type userServiceFixture struct {
	users   *MockUserRepository
	subs    *MockSubscriptionRepository
	recipes *MockRecipeRepository
	revoker *MockTokenRevoker
	svc     *UserService
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		users:   new(MockUserRepository),
		subs:    new(MockSubscriptionRepository),
		recipes: new(MockRecipeRepository),
		revoker: new(MockTokenRevoker),
	}
	f.svc = NewUserService(f.users, f.subs, f.recipes, fakeImages{}, f.revoker, time.Hour)
	return f
}

func newTestUser(t *testing.T, username string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username+"@example.com", username, "First", "Last", "password123")
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	input := RegisterInput{
		Email:     "Alice@Example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "wonderland",
	}

	t.Run("creates user", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByUsername", ctx, "alice").Return(false, nil)
		f.users.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		dto, err := f.svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "alice", dto.Username)
		assert.Equal(t, "alice@example.com", dto.Email)
		assert.False(t, dto.IsSubscribed)
		f.users.AssertExpectations(t)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByUsername", ctx, "alice").Return(true, nil)

		_, err := f.svc.Register(ctx, input)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByUsername", ctx, "alice").Return(false, nil)
		f.users.On("ExistsByEmail", ctx, "alice@example.com").Return(true, nil)

		_, err := f.svc.Register(ctx, input)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("maps duplicate insert", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByUsername", ctx, "alice").Return(false, nil)
		f.users.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.svc.Register(ctx, input)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rejects reserved username before touching storage", func(t *testing.T) {
		f := newUserServiceFixture()
		bad := input
		bad.Username = "me"

		_, err := f.svc.Register(ctx, bad)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_USERNAME", de.Code)
		f.users.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	})
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()
	author := newTestUser(t, "author")
	viewer := uuid.New()

	t.Run("anonymous viewer is never subscribed", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, author.ID).Return(author, nil)

		dto, err := f.svc.Get(ctx, uuid.Nil, author.ID)
		require.NoError(t, err)
		assert.False(t, dto.IsSubscribed)
		f.subs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reports subscription of viewer", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, author.ID).Return(author, nil)
		f.subs.On("Exists", ctx, viewer, author.ID).Return(true, nil)

		dto, err := f.svc.Get(ctx, viewer, author.ID)
		require.NoError(t, err)
		assert.True(t, dto.IsSubscribed)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newUserServiceFixture()
		id := uuid.New()
		f.users.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Get(ctx, viewer, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	alice, bob := newTestUser(t, "alice"), newTestUser(t, "bob")
	viewer := uuid.New()

	f := newUserServiceFixture()
	filter := identity.UserFilter{Filter: shared.Filter{Page: 1, PageSize: 2, Search: "example"}}
	f.users.On("FindAll", ctx, filter).Return([]*identity.User{alice, bob}, int64(3), nil)
	f.subs.On("FollowedAuthorIDs", ctx, viewer, []uuid.UUID{alice.ID, bob.ID}).
		Return(map[uuid.UUID]bool{bob.ID: true}, nil)

	page, err := f.svc.List(ctx, viewer, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].IsSubscribed)
	assert.True(t, page.Items[1].IsSubscribed)
}

func TestUserService_SetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("same password is rejected before revocation", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "alice")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		err := f.svc.SetPassword(ctx, SetPasswordInput{
			UserID:          user.ID,
			CurrentPassword: "password123",
			NewPassword:     "password123",
		})
		assert.ErrorIs(t, err, identity.ErrPasswordUnchanged)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.revoker.AssertNotCalled(t, "AddUserTokensToBlacklist", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("changes password and revokes tokens", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "alice")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("Update", ctx, user).Return(nil)
		f.revoker.On("AddUserTokensToBlacklist", ctx, user.ID.String(), time.Hour).Return(nil)

		err := f.svc.SetPassword(ctx, SetPasswordInput{
			UserID:          user.ID,
			CurrentPassword: "password123",
			NewPassword:     "new-password-1",
		})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("new-password-1"))
		f.revoker.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "bob")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		err := f.svc.SetPassword(ctx, SetPasswordInput{
			UserID:          user.ID,
			CurrentPassword: "nope-nope",
			NewPassword:     "new-password-1",
		})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PASSWORD", de.Code)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.revoker.AssertNotCalled(t, "AddUserTokensToBlacklist", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("revocation failure is reported", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "carol")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("Update", ctx, user).Return(nil)
		f.revoker.On("AddUserTokensToBlacklist", ctx, user.ID.String(), time.Hour).Return(errors.New("redis down"))

		err := f.svc.SetPassword(ctx, SetPasswordInput{
			UserID:          user.ID,
			CurrentPassword: "password123",
			NewPassword:     "new-password-1",
		})
		assert.ErrorContains(t, err, "redis down")
	})
}

func TestUserService_Subscribe(t *testing.T) {
	ctx := context.Background()
	follower := uuid.New()
	author := newTestUser(t, "chef")
	r1 := &recipe.Recipe{ID: uuid.New(), Name: "Soup", Image: "recipes/soup.png", CookingTime: 30}

	t.Run("returns author card with recipes", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, author.ID).Return(author, nil)
		f.subs.On("Create", ctx, mock.MatchedBy(func(s *identity.Subscription) bool {
			return s.UserID == follower && s.AuthorID == author.ID
		})).Return(nil)
		f.recipes.On("CountByAuthors", ctx, []uuid.UUID{author.ID}).Return(map[uuid.UUID]int64{author.ID: 4}, nil)
		f.recipes.On("FindLatestByAuthor", ctx, author.ID, 1).Return([]*recipe.Recipe{r1}, nil)

		dto, err := f.svc.Subscribe(ctx, follower, author.ID, 1)
		require.NoError(t, err)
		assert.True(t, dto.IsSubscribed)
		assert.Equal(t, int64(4), dto.RecipesCount)
		require.Len(t, dto.Recipes, 1)
		assert.Equal(t, "http://media.test/recipes/soup.png", dto.Recipes[0].Image)
	})

	t.Run("self subscription", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, author.ID).Return(author, nil)

		_, err := f.svc.Subscribe(ctx, author.ID, author.ID, 0)
		assert.ErrorIs(t, err, identity.ErrSelfSubscription)
	})

	t.Run("duplicate subscription", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, author.ID).Return(author, nil)
		f.subs.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.svc.Subscribe(ctx, follower, author.ID, 0)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown author", func(t *testing.T) {
		f := newUserServiceFixture()
		missing := uuid.New()
		f.users.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Subscribe(ctx, follower, missing, 0)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestUserService_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	follower := uuid.New()
	author := newTestUser(t, "chef")

	f := newUserServiceFixture()
	f.users.On("FindByID", ctx, author.ID).Return(author, nil)
	f.subs.On("Delete", ctx, follower, author.ID).Return(nil).Once()
	f.subs.On("Delete", ctx, follower, author.ID).Return(shared.ErrNotFound).Once()

	require.NoError(t, f.svc.Unsubscribe(ctx, follower, author.ID))
	assert.ErrorIs(t, f.svc.Unsubscribe(ctx, follower, author.ID), shared.ErrNotFound)
}

func TestUserService_Subscriptions(t *testing.T) {
	ctx := context.Background()
	follower := uuid.New()
	a, b := newTestUser(t, "anna"), newTestUser(t, "boris")
	recipes := []*recipe.Recipe{
		{ID: uuid.New(), Name: "Pie", Image: "recipes/pie.png", CookingTime: 60},
	}

	f := newUserServiceFixture()
	filter := shared.Filter{Page: 1, PageSize: 6}
	f.subs.On("FindAuthors", ctx, follower, filter).Return([]*identity.User{a, b}, int64(2), nil)
	f.recipes.On("CountByAuthors", ctx, []uuid.UUID{a.ID, b.ID}).Return(map[uuid.UUID]int64{a.ID: 1}, nil)
	f.recipes.On("FindLatestByAuthor", ctx, a.ID, 3).Return(recipes, nil)
	f.recipes.On("FindLatestByAuthor", ctx, b.ID, 3).Return([]*recipe.Recipe{}, nil)

	page, err := f.svc.Subscriptions(ctx, follower, shared.Filter{}, 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Items[0].RecipesCount)
	assert.Len(t, page.Items[0].Recipes, 1)
	assert.Equal(t, int64(0), page.Items[1].RecipesCount)
	assert.Empty(t, page.Items[1].Recipes)
	assert.NotNil(t, page.Items[1].Recipes)
}
