package handler

import (
	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only tag and ingredient lists
type CatalogHandler struct {
	BaseHandler
	recipes *recipeapp.RecipeService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(recipes *recipeapp.RecipeService) *CatalogHandler {
	return &CatalogHandler{recipes: recipes}
}

// ListTags handles GET /tags
//
// @ID listTags
// @Summary List tags
// @Tags tags
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response{data=[]recipe.TagDTO}
// @Router /tags [get]
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.recipes.ListTags(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// GetTag handles GET /tags/:id
//
// @ID getTag
// @Summary Get a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 200 {object} dto.Response{data=recipe.TagDTO}
// @Failure 404 {object} dto.Response
// @Router /tags/{id} [get]
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	tag, err := h.recipes.GetTag(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// ListIngredients handles GET /ingredients?name=<prefix>
//
// @ID listIngredients
// @Summary List ingredients
// @Tags ingredients
// @Accept json
// @Produce json
// @Param name query string false "Name prefix, case-insensitive"
// @Success 200 {object} dto.Response{data=[]recipe.IngredientDTO}
// @Router /ingredients [get]
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.recipes.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ingredients)
}

// GetIngredient handles GET /ingredients/:id
//
// @ID getIngredient
// @Summary Get an ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 200 {object} dto.Response{data=recipe.IngredientDTO}
// @Failure 404 {object} dto.Response
// @Router /ingredients/{id} [get]
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ingredient, err := h.recipes.GetIngredient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ingredient)
}
