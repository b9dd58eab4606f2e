package handlers

import (
	"net/http"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/feed"
	"github.com/gin-gonic/gin"
)

// FeedHandler serves the same-origin ICS proxy.
type FeedHandler struct {
	feeds feed.Service
}

// NewFeedHandler creates a new feed handler instance
func NewFeedHandler(feeds feed.Service) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// ProxyICS godoc
// @Summary Proxy a calendar's ICS feed
// @Description Fetch the tenant's upstream ICS feed and re-serve it same-origin as text/calendar
// @Tags feed
// @Produce plain
// @Param slug path string true "Calendar slug"
// @Success 200 {string} string "ICS payload"
// @Failure 404 {object} map[string]string "Calendar or feed not found"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Router /api/cal/{slug}/ics [get]
func (h *FeedHandler) ProxyICS(c *gin.Context) {
	body, err := h.feeds.FetchICS(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	// For HEAD requests net/http discards the body; the lookup and
	// error paths stay identical to GET.
	c.Data(http.StatusOK, feed.ContentType+"; charset=utf-8", body)
}
