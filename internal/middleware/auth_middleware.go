// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"

	"bookdesk-service/internal/pkg/response"
	"bookdesk-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const ctxRoles = "roles"

type AuthMiddleware struct {
	session *session.Manager
}

func NewAuthMiddleware(sessionManager *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{session: sessionManager}
}

// Auth rejects requests while no token is held and exposes the session roles
// to downstream handlers.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.session.IsAuthenticated() {
			response.Unauthorized(c, "login required")
			return
		}

		c.Set(ctxRoles, m.session.Roles())
		if info := m.session.TokenInfo(); info != nil && info.Expired {
			c.Header("X-Session-Expired", "true")
		}

		c.Next()
	}
}

// RequireRole requires at least one of roles. MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, want := range roles {
			if HasRole(c, want) {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions",
			errors.New("user does not have required role"),
			map[string]interface{}{
				"required_roles": roles,
				"user_roles":     GetRoles(c),
			})
	}
}

// StaffOnly is Auth plus the admin / employee role check.
func (m *AuthMiddleware) StaffOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole("admin", "employee"),
	}
}
