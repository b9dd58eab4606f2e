package middleware

import (
	"net/http"

	"github.com/SpladlesRUs/calendar-hub/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

const adminTokenHeader = "X-Admin-Token"

// NewAdminAuthMiddleware gates the admin surfaces. The opaque session
// token is accepted via header or query parameter; a missing or unknown
// token yields 401 with no further detail.
func NewAdminAuthMiddleware(sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(adminTokenHeader)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		session, ok := sessions.Get(c.Request.Context(), token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set("admin_session_id", session.ID)
		c.Next()
	}
}
