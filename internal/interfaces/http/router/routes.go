package router

import (
	"github.com/foodgram/backend/internal/interfaces/http/handler"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the endpoint groups mounted under /api
type Handlers struct {
	Health       *handler.HealthHandler
	Users        *handler.UserHandler
	Catalog      *handler.CatalogHandler
	Recipes      *handler.RecipeHandler
	ShoppingList *handler.ShoppingListHandler
}

// RegisterAPI declares every versioned route. Authentication runs once for
// the whole API (optional), so that rate limiting can key on the caller;
// routes that need a user add middleware.RequireUser.
func RegisterAPI(r *Router, h Handlers, authenticate gin.HandlerFunc, limiter *middleware.RateLimiter) {
	r.Use(authenticate)
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}
	authed := middleware.RequireUser()

	system := NewDomainGroup("system", "")
	system.GET("/health", h.Health.Health)

	users := NewDomainGroup("users", "/users")
	users.POST("", h.Users.Register)
	users.GET("", authed, h.Users.List)
	users.GET("/me", authed, h.Users.Me)
	users.POST("/set_password", authed, h.Users.SetPassword)
	users.GET("/subscriptions", authed, h.Users.Subscriptions)
	users.GET("/:id", authed, h.Users.Get)
	users.POST("/:id/subscribe", authed, h.Users.Subscribe)
	users.DELETE("/:id/subscribe", authed, h.Users.Unsubscribe)

	tags := NewDomainGroup("tags", "/tags")
	tags.GET("", h.Catalog.ListTags)
	tags.GET("/:id", h.Catalog.GetTag)

	ingredients := NewDomainGroup("ingredients", "/ingredients")
	ingredients.GET("", h.Catalog.ListIngredients)
	ingredients.GET("/:id", h.Catalog.GetIngredient)

	recipes := NewDomainGroup("recipes", "/recipes")
	recipes.GET("", h.Recipes.List)
	recipes.POST("", authed, h.Recipes.Create)
	recipes.GET("/download_shopping_cart", authed, h.ShoppingList.Download)
	recipes.GET("/:id", h.Recipes.Get)
	recipes.PATCH("/:id", authed, h.Recipes.Update)
	recipes.DELETE("/:id", authed, h.Recipes.Delete)
	recipes.POST("/:id/favorite", authed, h.Recipes.AddFavorite)
	recipes.DELETE("/:id/favorite", authed, h.Recipes.RemoveFavorite)
	recipes.POST("/:id/shopping_cart", authed, h.Recipes.AddToCart)
	recipes.DELETE("/:id/shopping_cart", authed, h.Recipes.RemoveFromCart)

	r.Register(system).Register(users).Register(tags).Register(ingredients).Register(recipes)
	r.Setup()
}
