package handler

import (
	identityapp "github.com/foodgram/backend/internal/application/identity"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler serves registration, profiles and subscriptions
type UserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=128"`
}

// SetPasswordRequest changes the caller's password
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,max=128"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// usersQuery adds exact email/username filters and a free-text search
type usersQuery struct {
	dto.PageRequest
	Email    string `form:"email" binding:"omitempty,max=254"`
	Username string `form:"username" binding:"omitempty,max=150"`
	Search   string `form:"search" binding:"omitempty,max=150"`
}

// subscriptionsQuery carries paging plus the per-author recipe cap
type subscriptionsQuery struct {
	dto.PageRequest
	RecipesLimit int `form:"recipes_limit" binding:"omitempty,min=0"`
}

// Register handles POST /users
//
// @ID registerUser
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body handler.RegisterRequest true "Sign-up payload"
// @Success 201 {object} dto.Response{data=shared.UserDTO}
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), identityapp.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List handles GET /users
//
// @ID listUsers
// @Summary List users
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param email query string false "Exact email"
// @Param username query string false "Exact username"
// @Param search query string false "Substring of email or username"
// @Success 200 {object} dto.Response{data=[]shared.UserDTO}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q usersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := q.Filter()
	filter.Search = q.Search
	page, err := h.users.List(c.Request.Context(), middleware.CurrentUserID(c), identity.UserFilter{
		Filter:   filter,
		Email:    q.Email,
		Username: q.Username,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /users/:id
//
// @ID getUser
// @Summary Get a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 200 {object} dto.Response{data=shared.UserDTO}
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Me handles GET /users/me
//
// @ID getCurrentUser
// @Summary Current user
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response{data=shared.UserDTO}
// @Failure 401 {object} dto.Response
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	user, err := h.users.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// SetPassword handles POST /users/set_password
//
// @ID setPassword
// @Summary Change password
// @Description Revokes every token issued before the change.
// @Tags users
// @Accept json
// @Produce json
// @Param request body handler.SetPasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Security BearerAuth
// @Router /users/set_password [post]
func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req SetPasswordRequest
	if !h.bind(c, &req) {
		return
	}
	err := h.users.SetPassword(c.Request.Context(), identityapp.SetPasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Subscriptions handles GET /users/subscriptions
//
// @ID listSubscriptions
// @Summary Followed authors
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} dto.Response{data=[]identity.SubscriptionDTO}
// @Failure 401 {object} dto.Response
// @Security BearerAuth
// @Router /users/subscriptions [get]
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var q subscriptionsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.users.Subscriptions(c.Request.Context(), userID, q.Filter(), q.RecipesLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Subscribe handles POST /users/:id/subscribe
//
// @ID subscribe
// @Summary Follow an author
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Param recipes_limit query int false "Recipes per author"
// @Success 201 {object} dto.Response{data=identity.SubscriptionDTO}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /users/{id}/subscribe [post]
func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	authorID, ok := h.pathID(c)
	if !ok {
		return
	}
	var q subscriptionsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	sub, err := h.users.Subscribe(c.Request.Context(), userID, authorID, q.RecipesLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// Unsubscribe handles DELETE /users/:id/subscribe
//
// @ID unsubscribe
// @Summary Unfollow an author
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "UUID"
// @Success 204
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /users/{id}/subscribe [delete]
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	authorID, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.users.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
