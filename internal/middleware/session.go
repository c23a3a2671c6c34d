package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Talts01/SocialPizza/internal/auth"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/pkg/response"
)

const (
	// ContextUserID is the key for the authenticated user's id.
	ContextUserID = "user_id"
	// ContextUserRole is the key for the authenticated user's role.
	ContextUserRole = "user_role"
	// ContextUser is the key for the authenticated user record.
	ContextUser = "user"
)

// Session returns a middleware that authenticates the session cookie:
// the token must validate, the session must still be live in Redis, and
// the account must not be banned. The user record is loaded fresh so
// role changes take effect without re-login.
func Session(cookieName string, tokens *auth.TokenService, store *auth.SessionStore, users *auth.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil {
			response.Unauthorized(c, "not authenticated")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(cookie)
		if err != nil {
			response.Unauthorized(c, "not authenticated")
			c.Abort()
			return
		}
		alive, err := store.Alive(c.Request.Context(), claims.ID)
		if err != nil || !alive {
			response.Unauthorized(c, "session expired")
			c.Abort()
			return
		}
		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "session invalid")
			c.Abort()
			return
		}
		if user.IsBanned {
			response.Forbidden(c, "account suspended")
			c.Abort()
			return
		}
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Session.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUser).(*models.User)
}
