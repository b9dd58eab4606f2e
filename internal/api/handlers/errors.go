package handlers

import (
	"errors"
	"net/http"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/feed"
	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP statuses. Messages stay
// generic: a 404 never says whether the record is absent, hidden or
// missing its feed, and a 502 never relays upstream content.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tenant.ErrNotFound), errors.Is(err, feed.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar not found"})
	case errors.Is(err, tenant.ErrSlugTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug already exists"})
	case errors.Is(err, tenant.ErrSlugImmutable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug cannot be changed"})
	case errors.Is(err, tenant.ErrInvalidView):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid calendar view"})
	case errors.Is(err, feed.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "ics fetch failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
