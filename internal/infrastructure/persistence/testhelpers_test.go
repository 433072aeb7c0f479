package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with every table
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	return database.DB
}

type fixtures struct {
	db          *gorm.DB
	users       *GormUserRepository
	tags        *GormTagRepository
	ingredients *GormIngredientRepository
	recipes     *GormRecipeRepository
	favorites   *GormFavoriteRepository
	carts       *GormShoppingCartRepository
	seq         int
}

func newFixtures(t *testing.T) *fixtures {
	return fixturesOn(setupTestDB(t))
}

func fixturesOn(db *gorm.DB) *fixtures {
	return &fixtures{
		db:          db,
		users:       NewGormUserRepository(db),
		tags:        NewGormTagRepository(db),
		ingredients: NewGormIngredientRepository(db),
		recipes:     NewGormRecipeRepository(db),
		favorites:   NewGormFavoriteRepository(db),
		carts:       NewGormShoppingCartRepository(db),
	}
}

func (f *fixtures) user(t *testing.T, username string) *identity.User {
	t.Helper()
	u := &identity.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hash",
	}
	u.BaseEntity.ID = uuid.New()
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixtures) tag(t *testing.T, name, color, slug string) *recipe.Tag {
	t.Helper()
	tag, err := recipe.NewTag(name, color, slug)
	require.NoError(t, err)
	require.NoError(t, f.tags.Create(context.Background(), tag))
	return tag
}

func (f *fixtures) ingredient(t *testing.T, name, unit string) *recipe.Ingredient {
	t.Helper()
	ing, err := recipe.NewIngredient(name, unit)
	require.NoError(t, err)
	require.NoError(t, f.ingredients.Create(context.Background(), ing))
	return ing
}

func (f *fixtures) recipe(t *testing.T, author uuid.UUID, name string, tags []uuid.UUID, items ...recipe.IngredientAmount) *recipe.Recipe {
	t.Helper()
	rec, err := recipe.NewRecipe(author, name, "Cook it", "recipes/"+name+".png", 15, tags, items)
	require.NoError(t, err)
	f.seq++
	rec.PubDate = time.Date(2024, 1, 1, 12, 0, f.seq, 0, time.UTC)
	require.NoError(t, f.recipes.Create(context.Background(), rec))
	return rec
}
