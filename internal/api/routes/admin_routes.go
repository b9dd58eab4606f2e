package routes

import (
	"github.com/SpladlesRUs/calendar-hub/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// AdminRoutes handles the setup of admin-gated routes
type AdminRoutes struct {
	authHandler     *handlers.AuthHandler
	calendarHandler *handlers.CalendarHandler
	authMiddleware  gin.HandlerFunc
}

// NewAdminRoutes creates a new AdminRoutes instance
func NewAdminRoutes(authHandler *handlers.AuthHandler, calendarHandler *handlers.CalendarHandler, authMiddleware gin.HandlerFunc) *AdminRoutes {
	return &AdminRoutes{
		authHandler:     authHandler,
		calendarHandler: calendarHandler,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers all admin-related routes
func (ar *AdminRoutes) RegisterRoutes(router *gin.Engine) {
	// Login sits outside the gate; everything else requires a session.
	router.POST("/admin/login", ar.authHandler.Login)

	adminGroup := router.Group("/admin")
	adminGroup.Use(ar.authMiddleware)

	adminGroup.POST("/logout", ar.authHandler.Logout)

	calendars := adminGroup.Group("/api/calendars")
	{
		calendars.GET("", ar.calendarHandler.ListCalendars)
		calendars.POST("", ar.calendarHandler.CreateCalendar)
		calendars.GET("/:slug", ar.calendarHandler.GetCalendar)
		calendars.PUT("/:slug", ar.calendarHandler.UpdateCalendar)
		calendars.DELETE("/:slug", ar.calendarHandler.DeleteCalendar)
		calendars.GET("/:slug/embed-code", ar.calendarHandler.GetEmbedCode)
	}
}
