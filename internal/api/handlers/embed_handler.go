package handlers

import (
	"net/http"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/embed"
	"github.com/gin-gonic/gin"
)

// EmbedHandler serves the public embed surfaces.
type EmbedHandler struct {
	embeds embed.Service
}

// NewEmbedHandler creates a new embed handler instance
func NewEmbedHandler(embeds embed.Service) *EmbedHandler {
	return &EmbedHandler{embeds: embeds}
}

// EmbedPage godoc
// @Summary Embeddable calendar page
// @Description Standalone themed calendar page for iframe embedding. Public calendars only.
// @Tags embed
// @Produce html
// @Param slug path string true "Calendar slug"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} map[string]string "Not found"
// @Router /c/{slug}/embed [get]
func (h *EmbedHandler) EmbedPage(c *gin.Context) {
	page, err := h.embeds.RenderEmbedPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// EmbedScript godoc
// @Summary Embeddable calendar loader script
// @Description Tenant-specific script that renders the calendar widget into #calendar-container on a third-party page. Public calendars only.
// @Tags embed
// @Produce plain
// @Param slug path string true "Calendar slug"
// @Success 200 {string} string "JavaScript"
// @Failure 404 {object} map[string]string "Not found"
// @Router /c/{slug}/embed.js [get]
func (h *EmbedHandler) EmbedScript(c *gin.Context) {
	script, err := h.embeds.RenderEmbedScript(c.Request.Context(), c.Param("slug"), c.Request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/javascript; charset=utf-8", script)
}
