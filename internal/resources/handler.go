package resources

import (
	"github.com/gin-gonic/gin"

	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/pkg/response"
)

// Handler serves the public lookup endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a resources handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Cities handles GET /api/resources/cities.
func (h *Handler) Cities(c *gin.Context) {
	list, err := h.repo.Cities(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list cities")
		return
	}
	response.OK(c, list)
}

// Categories handles GET /api/resources/categories, with the catch-all
// category ordered last.
func (h *Handler) Categories(c *gin.Context) {
	list, err := h.repo.Categories(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list categories")
		return
	}
	models.SortCategories(list)
	response.OK(c, list)
}

// Restaurants handles GET /api/resources/restaurants.
func (h *Handler) Restaurants(c *gin.Context) {
	list, err := h.repo.Restaurants(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list restaurants")
		return
	}
	response.OK(c, list)
}
