package handler

import (
	"fmt"
	"net/http"

	printingapp "github.com/foodgram/backend/internal/application/printing"
	"github.com/gin-gonic/gin"
)

// ShoppingListHandler serves the shopping-list PDF
type ShoppingListHandler struct {
	BaseHandler
	lists *printingapp.ShoppingListService
}

// NewShoppingListHandler creates a new ShoppingListHandler
func NewShoppingListHandler(lists *printingapp.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists}
}

// Download handles GET /recipes/download_shopping_cart. Nothing is written
// until the whole document has rendered.
//
// @ID downloadShoppingCart
// @Summary Download the shopping list
// @Description Aggregates the ingredients of every recipe in the caller's cart into a paginated PDF.
// @Tags recipes
// @Produce application/pdf
// @Success 200 {file} binary
// @Failure 401 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Failure 503 {object} dto.Response
// @Security BearerAuth
// @Router /recipes/download_shopping_cart [get]
func (h *ShoppingListHandler) Download(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	file, err := h.lists.Download(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
