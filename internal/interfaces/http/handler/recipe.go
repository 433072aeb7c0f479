package handler

import (
	"context"
	"strconv"

	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	appshared "github.com/foodgram/backend/internal/application/shared"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecipeHandler serves recipes, favorites and the shopping cart
type RecipeHandler struct {
	BaseHandler
	recipes *recipeapp.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipes *recipeapp.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// IngredientAmountRequest is one ingredient line of a recipe payload
type IngredientAmountRequest struct {
	ID     string `json:"id" binding:"required,uuid"`
	Amount int    `json:"amount" binding:"required,min=1,max=32767"`
}

// RecipeRequest is the create/update payload. Image is a base64 data URI;
// on update an empty image keeps the current one.
type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []string                  `json:"tags" binding:"required,min=1,dive,uuid"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1,max=1000"`
}

func (r RecipeRequest) tagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = uuid.MustParse(t)
	}
	return ids
}

func (r RecipeRequest) amounts() []recipe.IngredientAmount {
	out := make([]recipe.IngredientAmount, len(r.Ingredients))
	for i, in := range r.Ingredients {
		out[i] = recipe.IngredientAmount{IngredientID: uuid.MustParse(in.ID), Amount: in.Amount}
	}
	return out
}

// listRecipesQuery are the recipe list filters. Flags accept 1/0 or
// true/false.
type listRecipesQuery struct {
	dto.PageRequest
	Author           string   `form:"author" binding:"omitempty,uuid"`
	Tags             []string `form:"tags"`
	IsFavorited      string   `form:"is_favorited" binding:"omitempty,oneof=0 1 true false"`
	IsInShoppingCart string   `form:"is_in_shopping_cart" binding:"omitempty,oneof=0 1 true false"`
}

func queryFlag(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

// List handles GET /recipes
//
// @ID listRecipes
// @Summary List recipes
// @Tags recipes
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query string false "Author UUID"
// @Param tags query []string false "Tag slugs, any match" collectionFormat(multi)
// @Param is_favorited query string false "Only the caller's favorites" Enums(0, 1, true, false)
// @Param is_in_shopping_cart query string false "Only recipes in the caller's cart" Enums(0, 1, true, false)
// @Success 200 {object} dto.Response{data=[]recipe.RecipeDTO}
// @Failure 400 {object} dto.Response
// @Router /recipes [get]
func (h *RecipeHandler) List(c *gin.Context) {
	var q listRecipesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	input := recipeapp.ListRecipesInput{
		Filter:    q.Filter(),
		ViewerID:  middleware.CurrentUserID(c),
		TagSlugs:  q.Tags,
		Favorited: queryFlag(q.IsFavorited),
		InCart:    queryFlag(q.IsInShoppingCart),
	}
	if q.Author != "" {
		author := uuid.MustParse(q.Author)
		input.AuthorID = &author
	}

	page, err := h.recipes.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /recipes/:id
//
// @ID getRecipe
// @Summary Get a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 200 {object} dto.Response{data=recipe.RecipeDTO}
// @Failure 404 {object} dto.Response
// @Router /recipes/{id} [get]
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rec, err := h.recipes.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Create handles POST /recipes
//
// @ID createRecipe
// @Summary Publish a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body handler.RecipeRequest true "Recipe payload"
// @Success 201 {object} dto.Response{data=recipe.RecipeDTO}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Security BearerAuth
// @Router /recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req RecipeRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Image == "" {
		h.ErrorWithCode(c, dto.ErrCodeInvalidImage, "Image is required")
		return
	}
	rec, err := h.recipes.Create(c.Request.Context(), recipeapp.CreateRecipeInput{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.tagIDs(),
		Ingredients: req.amounts(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// Update handles PATCH /recipes/:id
//
// @ID updateRecipe
// @Summary Update a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Param request body handler.RecipeRequest true "Recipe payload"
// @Success 200 {object} dto.Response{data=recipe.RecipeDTO}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req RecipeRequest
	if !h.bind(c, &req) {
		return
	}
	rec, err := h.recipes.Update(c.Request.Context(), recipeapp.UpdateRecipeInput{
		ID:          id,
		EditorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.tagIDs(),
		Ingredients: req.amounts(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Delete handles DELETE /recipes/:id
//
// @ID deleteRecipe
// @Summary Delete a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 204
// @Failure 401 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddFavorite handles POST /recipes/:id/favorite
//
// @ID addFavorite
// @Summary Add to favorite
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 201 {object} dto.Response{data=shared.ShortRecipeDTO}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/{id}/favorite [post]
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.add(c, h.recipes.AddFavorite)
}

// RemoveFavorite handles DELETE /recipes/:id/favorite
//
// @ID removeFavorite
// @Summary Remove from favorite
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 204
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/{id}/favorite [delete]
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.remove(c, h.recipes.RemoveFavorite)
}

// AddToCart handles POST /recipes/:id/shopping_cart
//
// @ID addShoppingCart
// @Summary Add to shopping cart
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 201 {object} dto.Response{data=shared.ShortRecipeDTO}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/{id}/shopping_cart [post]
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.add(c, h.recipes.AddToCart)
}

// RemoveFromCart handles DELETE /recipes/:id/shopping_cart
//
// @ID removeShoppingCart
// @Summary Remove from shopping cart
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 204
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/{id}/shopping_cart [delete]
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.remove(c, h.recipes.RemoveFromCart)
}

func (h *RecipeHandler) add(c *gin.Context, fn func(ctx context.Context, userID, recipeID uuid.UUID) (*appshared.ShortRecipeDTO, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	card, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, card)
}

func (h *RecipeHandler) remove(c *gin.Context, fn func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
