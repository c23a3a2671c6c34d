package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Talts01/SocialPizza/internal/auth"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/pkg/response"
	"github.com/Talts01/SocialPizza/pkg/utils"
)

// CreateUserRequest is the body for POST /api/admin/users. Unlike
// self-registration, an admin picks the role.
type CreateUserRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Name     string      `json:"name" binding:"required"`
	Surname  string      `json:"surname" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// CreateRestaurantRequest is the body for POST /api/admin/restaurants.
type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	MaxCapacity int    `json:"max_capacity" binding:"required,gt=0"`
	CityID      int64  `json:"city_id" binding:"required"`
	OwnerID     int64  `json:"owner_id"`
}

// CreateCategoryRequest is the body for POST /api/admin/categories.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// RoleRequest is the body for PATCH /api/admin/users/:id/role.
type RoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// Handler serves the admin endpoints. All routes require the ADMIN role.
type Handler struct {
	repo   *Repository
	users  *auth.Repository
	logger *zap.Logger
}

// NewHandler creates an admin handler.
func NewHandler(repo *Repository, users *auth.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, users: users, logger: logger}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// CreateUser handles POST /api/admin/users.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.Role.Valid() {
		response.BadRequest(c, "invalid role")
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to create user")
		return
	}
	user, err := h.users.Create(c.Request.Context(), req.Email, hash, req.Name, req.Surname, req.Role)
	switch {
	case err == nil:
		response.Created(c, user.ToPublic())
	case errors.Is(err, auth.ErrEmailTaken):
		response.Conflict(c, err.Error())
	default:
		h.logger.Error("admin create user", zap.Error(err))
		response.Internal(c, "failed to create user")
	}
}

// Ban handles PATCH /api/admin/users/:id/ban.
func (h *Handler) Ban(c *gin.Context) {
	h.setBanned(c, true)
}

// Unban handles PATCH /api/admin/users/:id/unban.
func (h *Handler) Unban(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *Handler) setBanned(c *gin.Context, banned bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.repo.SetBanned(c.Request.Context(), id, banned)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, "failed to update user")
	}
}

// SetRole handles PATCH /api/admin/users/:id/role.
func (h *Handler) SetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Role.Valid() {
		response.BadRequest(c, "invalid role")
		return
	}
	err := h.repo.SetRole(c.Request.Context(), id, req.Role)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, "failed to update user")
	}
}

// CreateRestaurant handles POST /api/admin/restaurants.
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rest, err := h.repo.CreateRestaurant(c.Request.Context(),
		req.Name, req.Address, req.MaxCapacity, req.CityID, req.OwnerID)
	switch {
	case err == nil:
		response.Created(c, rest)
	case errors.Is(err, ErrOwnerHasRestaurant):
		response.Conflict(c, err.Error())
	default:
		h.logger.Error("admin create restaurant", zap.Error(err))
		response.Internal(c, "failed to create restaurant")
	}
}

// DeleteRestaurant handles DELETE /api/admin/restaurants/:id. A venue
// that still hosts events cannot be removed.
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.repo.DeleteRestaurant(c.Request.Context(), id)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrInUse):
		response.Conflict(c, "restaurant has associated events")
	case errors.Is(err, ErrRestaurantNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, "failed to delete restaurant")
	}
}

// CreateCategory handles POST /api/admin/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat, err := h.repo.CreateCategory(c.Request.Context(), req.Name)
	switch {
	case err == nil:
		response.Created(c, cat)
	case errors.Is(err, ErrDuplicateName):
		response.Conflict(c, err.Error())
	default:
		response.Internal(c, "failed to create category")
	}
}

// DeleteCategory handles DELETE /api/admin/categories/:id. A category
// that events still reference cannot be removed.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.repo.DeleteCategory(c.Request.Context(), id)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrInUse):
		response.Conflict(c, "category has associated events")
	case errors.Is(err, ErrCategoryNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, "failed to delete category")
	}
}
