package middleware

import (
	"github.com/gin-gonic/gin"
)

// NewFrameHeadersMiddleware sets the frame-ancestors policy on every
// response. Third-party iframe embedding is the product, so no
// X-Frame-Options header is ever written.
func NewFrameHeadersMiddleware(allowedParents string) gin.HandlerFunc {
	if allowedParents == "" {
		allowedParents = "*"
	}
	policy := "frame-ancestors " + allowedParents
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Security-Policy", policy)
		c.Next()
	}
}
