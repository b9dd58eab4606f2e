package routes

import (
	"github.com/SpladlesRUs/calendar-hub/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// PublicRoutes handles the setup of the unauthenticated embed and
// proxy routes
type PublicRoutes struct {
	embedHandler *handlers.EmbedHandler
	feedHandler  *handlers.FeedHandler
}

// NewPublicRoutes creates a new PublicRoutes instance
func NewPublicRoutes(embedHandler *handlers.EmbedHandler, feedHandler *handlers.FeedHandler) *PublicRoutes {
	return &PublicRoutes{
		embedHandler: embedHandler,
		feedHandler:  feedHandler,
	}
}

// RegisterRoutes registers all public routes
func (pr *PublicRoutes) RegisterRoutes(router *gin.Engine) {
	embedGroup := router.Group("/c/:slug")
	{
		embedGroup.GET("/embed", pr.embedHandler.EmbedPage)
		embedGroup.GET("/embed.js", pr.embedHandler.EmbedScript)
		embedGroup.HEAD("/embed.js", pr.embedHandler.EmbedScript)
	}

	feedGroup := router.Group("/api/cal/:slug")
	{
		feedGroup.GET("/ics", pr.feedHandler.ProxyICS)
		feedGroup.HEAD("/ics", pr.feedHandler.ProxyICS)
	}
}
