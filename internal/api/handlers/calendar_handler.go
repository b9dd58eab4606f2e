package handlers

import (
	"net/http"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/embed"
	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"github.com/gin-gonic/gin"
)

// CalendarHandler handles the admin-gated calendar config API.
type CalendarHandler struct {
	service tenant.Service
	embeds  embed.Service
}

// NewCalendarHandler creates a new calendar handler instance
func NewCalendarHandler(service tenant.Service, embeds embed.Service) *CalendarHandler {
	return &CalendarHandler{service: service, embeds: embeds}
}

// ListCalendars godoc
// @Summary List calendars
// @Description List all calendar configs sorted by name
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 200 {object} tenant.CalendarListResponse "Calendars"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /admin/api/calendars [get]
func (h *CalendarHandler) ListCalendars(c *gin.Context) {
	response, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// CreateCalendar godoc
// @Summary Create a calendar
// @Description Create a calendar config; slug derives from name when omitted. Accepts an optional multipart logo_file.
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security AdminToken
// @Param name formData string true "Display name"
// @Success 201 {object} tenant.CalendarConfig "Created calendar"
// @Failure 400 {object} map[string]string "Slug conflict or invalid view"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /admin/api/calendars [post]
func (h *CalendarHandler) CreateCalendar(c *gin.Context) {
	var req tenant.CreateCalendarRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logo, cleanup, err := logoUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid logo upload"})
		return
	}
	defer cleanup()

	config, err := h.service.Create(c.Request.Context(), req, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, config)
}

// GetCalendar godoc
// @Summary Get a calendar
// @Description Get one calendar config by slug (admin view, includes non-public records)
// @Tags admin
// @Produce json
// @Security AdminToken
// @Param slug path string true "Calendar slug"
// @Success 200 {object} tenant.CalendarConfig "Calendar"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/api/calendars/{slug} [get]
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	config, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// UpdateCalendar godoc
// @Summary Update a calendar
// @Description Update any subset of fields; omitted fields are unchanged. The slug itself is immutable.
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security AdminToken
// @Param slug path string true "Calendar slug"
// @Success 200 {object} tenant.CalendarConfig "Updated calendar"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/api/calendars/{slug} [put]
func (h *CalendarHandler) UpdateCalendar(c *gin.Context) {
	var req tenant.UpdateCalendarRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logo, cleanup, err := logoUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid logo upload"})
		return
	}
	defer cleanup()

	config, err := h.service.Update(c.Request.Context(), c.Param("slug"), req, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// DeleteCalendar godoc
// @Summary Delete a calendar
// @Description Delete a calendar config and its uploaded logo, if any
// @Tags admin
// @Security AdminToken
// @Param slug path string true "Calendar slug"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/api/calendars/{slug} [delete]
func (h *CalendarHandler) DeleteCalendar(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetEmbedCode godoc
// @Summary Get embed snippets
// @Description Copy-pasteable iframe and script snippets for a calendar
// @Tags admin
// @Produce json
// @Security AdminToken
// @Param slug path string true "Calendar slug"
// @Success 200 {object} embed.EmbedCode "Snippets"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/api/calendars/{slug}/embed-code [get]
func (h *CalendarHandler) GetEmbedCode(c *gin.Context) {
	code, err := h.embeds.BuildEmbedCode(c.Request.Context(), c.Param("slug"), c.Request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

// logoUpload extracts the optional multipart logo file. The cleanup
// closes the underlying file and is safe to call unconditionally.
func logoUpload(c *gin.Context) (*tenant.LogoUpload, func(), error) {
	noop := func() {}

	header, err := c.FormFile("logo_file")
	if err != nil {
		// Absent file is the common case, not an error.
		return nil, noop, nil
	}
	if header.Filename == "" {
		return nil, noop, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &tenant.LogoUpload{Filename: header.Filename, Reader: f}, func() { f.Close() }, nil
}
