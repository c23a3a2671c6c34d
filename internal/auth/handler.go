package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Talts01/SocialPizza/config"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/pkg/response"
	"github.com/Talts01/SocialPizza/pkg/utils"
)

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles session HTTP endpoints.
type Handler struct {
	repo    *Repository
	tokens  *TokenService
	store   *SessionStore
	session config.SessionConfig
	logger  *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, tokens *TokenService, store *SessionStore, session config.SessionConfig, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, tokens: tokens, store: store, session: session, logger: logger}
}

// Register handles POST /api/auth/register. Self-registration always
// creates a USER; other roles are assigned by an admin.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.Name, req.Surname, models.RoleUser)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.Internal(c, "failed to create user")
		return
	}

	h.openSession(c, user)
	response.Created(c, user.ToPublic())
}

// Login handles POST /api/auth/login: validates credentials and sets the
// session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if user.IsBanned {
		response.Forbidden(c, "account suspended")
		return
	}

	if !h.openSession(c, user) {
		return
	}
	h.logger.Info("login", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	response.OK(c, user.ToPublic())
}

// Logout handles POST /api/auth/logout: revokes the session and clears
// the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.session.CookieName); err == nil {
		if claims, err := h.tokens.Validate(cookie); err == nil {
			_ = h.store.Delete(c.Request.Context(), claims.ID)
		}
	}
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)
	response.NoContent(c)
}

// Session handles GET /api/auth/session: returns the current user for a
// valid session cookie, so a reloaded client can restore its viewer.
func (h *Handler) Session(c *gin.Context) {
	cookie, err := c.Cookie(h.session.CookieName)
	if err != nil {
		response.Unauthorized(c, "not authenticated")
		return
	}
	claims, err := h.tokens.Validate(cookie)
	if err != nil {
		response.Unauthorized(c, "not authenticated")
		return
	}
	alive, err := h.store.Alive(c.Request.Context(), claims.ID)
	if err != nil || !alive {
		response.Unauthorized(c, "session expired")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || user.IsBanned {
		response.Unauthorized(c, "session invalid")
		return
	}
	response.OK(c, user.ToPublic())
}

func (h *Handler) openSession(c *gin.Context, user *models.User) bool {
	token, sessionID, err := h.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to open session")
		return false
	}
	if err := h.store.Save(c.Request.Context(), sessionID, user.ID); err != nil {
		response.Internal(c, "failed to open session")
		return false
	}
	maxAge := int(h.tokens.TTL().Seconds())
	c.SetCookie(h.session.CookieName, token, maxAge, "/", "", h.session.CookieSecure, true)
	return true
}
