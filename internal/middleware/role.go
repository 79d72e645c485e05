package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/internal/domain"
	"atlas/internal/pkg/response"
)

// RequireCapability gates a route group on the role capability table.
// Handlers never compare role strings directly.
func RequireCapability(pick func(domain.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString("role"))
		if !role.Valid() || !pick(role.Capabilities()) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func ManageWorkspaces() gin.HandlerFunc {
	return RequireCapability(func(caps domain.Capabilities) bool { return caps.ManageWorkspaces })
}

func ManageUsers() gin.HandlerFunc {
	return RequireCapability(func(caps domain.Capabilities) bool { return caps.ManageUsers })
}

func ViewAnalytics() gin.HandlerFunc {
	return RequireCapability(func(caps domain.Capabilities) bool { return caps.ViewAnalytics })
}
