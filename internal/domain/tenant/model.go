package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// View enumerates the calendar display modes understood by the client
// widget.
type View string

const (
	ViewMonth View = "dayGridMonth"
	ViewWeek  View = "timeGridWeek"
	ViewDay   View = "timeGridDay"
	ViewList  View = "listWeek"
)

// Defaults applied when a create request omits optional fields.
const (
	DefaultPrimaryColor    = "#0b9444"
	DefaultAccentColor     = "#0bd3d3"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#222222"
	DefaultTitleColor      = "#ffffff"
	DefaultTimezone        = "America/New_York"
	DefaultLogoHeight      = 40
	DefaultDesktopView     = ViewMonth
	DefaultMobileView      = ViewList
)

// CalendarConfig is one registered calendar: the tenant record behind a
// public embed surface. Slug is immutable once assigned.
type CalendarConfig struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug           string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_calendars_slug"`
	IncomingICSURL string    `json:"incoming_ics_url,omitempty" gorm:"type:text"`

	PrimaryColor    string `json:"primary_color" gorm:"type:varchar(64)"`
	AccentColor     string `json:"accent_color" gorm:"type:varchar(64)"`
	BackgroundColor string `json:"background_color" gorm:"type:varchar(64)"`
	TextColor       string `json:"text_color" gorm:"type:varchar(64)"`
	TitleColor      string `json:"title_color" gorm:"type:varchar(64)"`

	LogoURL    string `json:"logo_url,omitempty" gorm:"type:text"`
	LogoPath   string `json:"logo_path,omitempty" gorm:"type:text"`
	LogoHeight int    `json:"logo_height"`

	// Timezone is an IANA name passed through to the widget untouched.
	Timezone    string `json:"timezone" gorm:"type:varchar(64)"`
	DesktopView View   `json:"desktop_view" gorm:"type:varchar(32)"`
	MobileView  View   `json:"mobile_view" gorm:"type:varchar(32)"`
	ShowName    bool   `json:"show_name"`
	IsPublic    bool   `json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CalendarConfig) TableName() string { return "calendars" }

// BeforeCreate hook for UUID generation
func (c *CalendarConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CreateCalendarRequest carries the admin create form. Omitted fields
// take the documented defaults; Slug is derived from Name when empty.
type CreateCalendarRequest struct {
	Name            string `form:"name" json:"name" binding:"required"`
	Slug            string `form:"slug" json:"slug"`
	IncomingICSURL  string `form:"incoming_ics_url" json:"incoming_ics_url"`
	LogoURL         string `form:"logo_url" json:"logo_url"`
	PrimaryColor    string `form:"primary_color" json:"primary_color"`
	AccentColor     string `form:"accent_color" json:"accent_color"`
	BackgroundColor string `form:"background_color" json:"background_color"`
	TextColor       string `form:"text_color" json:"text_color"`
	TitleColor      string `form:"title_color" json:"title_color"`
	Timezone        string `form:"timezone" json:"timezone"`
	DesktopView     View   `form:"desktop_view" json:"desktop_view"`
	MobileView      View   `form:"mobile_view" json:"mobile_view"`
	ShowName        *bool  `form:"show_name" json:"show_name"`
	IsPublic        *bool  `form:"is_public" json:"is_public"`
	LogoHeight      *int   `form:"logo_height" json:"logo_height"`
}

// UpdateCalendarRequest carries a partial admin edit; nil fields are
// left unchanged. Supplying a slug that differs from the record's is
// rejected: slugs are fixed at creation.
type UpdateCalendarRequest struct {
	Name            *string `form:"name" json:"name"`
	Slug            *string `form:"slug" json:"slug"`
	IncomingICSURL  *string `form:"incoming_ics_url" json:"incoming_ics_url"`
	LogoURL         *string `form:"logo_url" json:"logo_url"`
	PrimaryColor    *string `form:"primary_color" json:"primary_color"`
	AccentColor     *string `form:"accent_color" json:"accent_color"`
	BackgroundColor *string `form:"background_color" json:"background_color"`
	TextColor       *string `form:"text_color" json:"text_color"`
	TitleColor      *string `form:"title_color" json:"title_color"`
	Timezone        *string `form:"timezone" json:"timezone"`
	DesktopView     *View   `form:"desktop_view" json:"desktop_view"`
	MobileView      *View   `form:"mobile_view" json:"mobile_view"`
	ShowName        *bool   `form:"show_name" json:"show_name"`
	IsPublic        *bool   `form:"is_public" json:"is_public"`
	LogoHeight      *int    `form:"logo_height" json:"logo_height"`
}

// CalendarListResponse wraps the admin list endpoint payload.
type CalendarListResponse struct {
	Calendars []CalendarConfig `json:"calendars"`
	Total     int              `json:"total"`
}

func isValidView(v View) bool {
	switch v {
	case ViewMonth, ViewWeek, ViewDay, ViewList:
		return true
	}
	return false
}
