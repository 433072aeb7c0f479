package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/foodgram/backend/internal/application/identity"
	printingapp "github.com/foodgram/backend/internal/application/printing"
	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/auth"
	"github.com/foodgram/backend/internal/infrastructure/persistence"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	infraprinting "github.com/foodgram/backend/internal/infrastructure/printing"
	"github.com/foodgram/backend/internal/infrastructure/storage"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

const testUserHeader = "X-Test-User"

// testEnv wires real services over an in-memory SQLite database
type testEnv struct {
	engine      *gin.Engine
	users       *identityapp.UserService
	recipes     *recipeapp.RecipeService
	tags        *persistence.GormTagRepository
	ingredients *persistence.GormIngredientRepository
	images      *storage.MemoryImageStorage
}

type envOptions struct {
	aggregator recipe.ShoppingListAggregator
	painter    printingapp.Painter
}

func newTestEnv(t *testing.T, opts ...func(*envOptions)) *testEnv {
	t.Helper()
	database, err := persistence.Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.DB.AutoMigrate(models.All()...))

	db := database.DB
	env := &testEnv{
		tags:        persistence.NewGormTagRepository(db),
		ingredients: persistence.NewGormIngredientRepository(db),
		images:      storage.NewMemoryImageStorage("/media"),
	}
	userRepo := persistence.NewGormUserRepository(db)
	subRepo := persistence.NewGormSubscriptionRepository(db)
	recipeRepo := persistence.NewGormRecipeRepository(db)
	carts := persistence.NewGormShoppingCartRepository(db)

	env.users = identityapp.NewUserService(userRepo, subRepo, recipeRepo, env.images, auth.NewInMemoryTokenBlacklist(), time.Hour)
	env.recipes = recipeapp.NewRecipeService(recipeapp.Repositories{
		Recipes:       recipeRepo,
		Tags:          env.tags,
		Ingredients:   env.ingredients,
		Favorites:     persistence.NewGormFavoriteRepository(db),
		Carts:         carts,
		Users:         userRepo,
		Subscriptions: subRepo,
	}, env.images)

	o := envOptions{aggregator: carts, painter: infraprinting.NewShoppingListRenderer()}
	for _, opt := range opts {
		opt(&o)
	}
	lists := printingapp.NewShoppingListService(o.aggregator, o.painter, "foodgram.example",
		printingapp.WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }))

	env.engine = newTestEngine(
		NewUserHandler(env.users),
		NewRecipeHandler(env.recipes),
		NewCatalogHandler(env.recipes),
		NewShoppingListHandler(lists),
		NewMediaHandler(env.images),
	)
	return env
}

// fakeAuth trusts the test header instead of a bearer token
func fakeAuth(c *gin.Context) {
	if id := c.GetHeader(testUserHeader); id != "" {
		c.Set(middleware.JWTUserIDKey, id)
	}
	c.Next()
}

func newTestEngine(users *UserHandler, recipes *RecipeHandler, catalog *CatalogHandler, lists *ShoppingListHandler, media *MediaHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), fakeAuth)
	r.GET("/media/*key", media.Serve)

	api := r.Group("/api/v1")
	api.POST("/users", users.Register)
	api.GET("/users", middleware.RequireUser(), users.List)
	api.GET("/users/me", users.Me)
	api.POST("/users/set_password", users.SetPassword)
	api.GET("/users/subscriptions", users.Subscriptions)
	api.GET("/users/:id", middleware.RequireUser(), users.Get)
	api.POST("/users/:id/subscribe", users.Subscribe)
	api.DELETE("/users/:id/subscribe", users.Unsubscribe)

	api.GET("/tags", catalog.ListTags)
	api.GET("/tags/:id", catalog.GetTag)
	api.GET("/ingredients", catalog.ListIngredients)
	api.GET("/ingredients/:id", catalog.GetIngredient)

	api.GET("/recipes", recipes.List)
	api.POST("/recipes", recipes.Create)
	api.GET("/recipes/download_shopping_cart", lists.Download)
	api.GET("/recipes/:id", recipes.Get)
	api.PATCH("/recipes/:id", recipes.Update)
	api.DELETE("/recipes/:id", recipes.Delete)
	api.POST("/recipes/:id/favorite", recipes.AddFavorite)
	api.DELETE("/recipes/:id/favorite", recipes.RemoveFavorite)
	api.POST("/recipes/:id/shopping_cart", recipes.AddToCart)
	api.DELETE("/recipes/:id/shopping_cart", recipes.RemoveFromCart)
	return r
}

func (e *testEnv) do(t *testing.T, method, path string, as uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		req.Header.Set(testUserHeader, as.String())
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, username string) uuid.UUID {
	t.Helper()
	u, err := e.users.Register(context.Background(), identityapp.RegisterInput{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	return u.ID
}

func (e *testEnv) tag(t *testing.T, name, slug string) *recipe.Tag {
	t.Helper()
	tag, err := recipe.NewTag(name, "#E26C2D", slug)
	require.NoError(t, err)
	require.NoError(t, e.tags.Create(context.Background(), tag))
	return tag
}

func (e *testEnv) ingredient(t *testing.T, name, unit string) *recipe.Ingredient {
	t.Helper()
	ing, err := recipe.NewIngredient(name, unit)
	require.NoError(t, err)
	require.NoError(t, e.ingredients.Create(context.Background(), ing))
	return ing
}

func (e *testEnv) publish(t *testing.T, author uuid.UUID, name string, tag uuid.UUID, items ...recipe.IngredientAmount) uuid.UUID {
	t.Helper()
	rec, err := e.recipes.Create(context.Background(), recipeapp.CreateRecipeInput{
		AuthorID:    author,
		Name:        name,
		Text:        "Mix and cook",
		Image:       pngDataURI(t),
		CookingTime: 20,
		TagIDs:      []uuid.UUID{tag},
		Ingredients: items,
	})
	require.NoError(t, err)
	return rec.ID
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// decode unwraps the success envelope into out
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) *dto.Meta {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    *dto.Meta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp.Meta
}

func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}
