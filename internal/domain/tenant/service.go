package tenant

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/SpladlesRUs/calendar-hub/internal/infrastructure/storage"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ErrInvalidView is returned when a request names a display mode the
// widget does not support.
var ErrInvalidView = errors.New("invalid calendar view")

// ErrSlugImmutable is returned when an edit tries to change a slug.
// Published embed and feed URLs are built from the slug, so renaming
// would break every page already embedding the calendar.
var ErrSlugImmutable = errors.New("slug cannot be changed")

// LogoUpload is an incoming logo file attached to a create or edit.
type LogoUpload struct {
	Filename string
	Reader   io.Reader
}

// Service defines the business logic for managing calendar configs.
type Service interface {
	Create(ctx context.Context, req CreateCalendarRequest, logo *LogoUpload) (*CalendarConfig, error)
	Update(ctx context.Context, slugName string, req UpdateCalendarRequest, logo *LogoUpload) (*CalendarConfig, error)
	Delete(ctx context.Context, slugName string) error
	GetBySlug(ctx context.Context, slugName string) (*CalendarConfig, error)
	GetPublicBySlug(ctx context.Context, slugName string) (*CalendarConfig, error)
	List(ctx context.Context) (*CalendarListResponse, error)
}

type service struct {
	repo   Repository
	blobs  storage.Store
	logger *zap.Logger

	// mu serializes admin writes so create/edit/delete on the same slug
	// cannot interleave. Write traffic is a single operator; a single
	// lock is enough.
	mu sync.Mutex
}

// NewService creates a new calendar config service instance
func NewService(repo Repository, blobs storage.Store, logger *zap.Logger) Service {
	return &service{repo: repo, blobs: blobs, logger: logger}
}

// Slugify normalizes text into a URL-safe slug. Explicit slugs pass
// through the same normalizer, so "Foo" and "foo" always collide.
func Slugify(text string) string {
	return slug.Make(text)
}

func (s *service) Create(ctx context.Context, req CreateCalendarRequest, logo *LogoUpload) (*CalendarConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slugName := req.Slug
	if slugName == "" {
		slugName = req.Name
	}
	slugName = Slugify(slugName)

	config := &CalendarConfig{
		Name:            req.Name,
		Slug:            slugName,
		IncomingICSURL:  req.IncomingICSURL,
		LogoURL:         req.LogoURL,
		PrimaryColor:    defaultString(req.PrimaryColor, DefaultPrimaryColor),
		AccentColor:     defaultString(req.AccentColor, DefaultAccentColor),
		BackgroundColor: defaultString(req.BackgroundColor, DefaultBackgroundColor),
		TextColor:       defaultString(req.TextColor, DefaultTextColor),
		TitleColor:      defaultString(req.TitleColor, DefaultTitleColor),
		Timezone:        defaultString(req.Timezone, DefaultTimezone),
		DesktopView:     defaultView(req.DesktopView, DefaultDesktopView),
		MobileView:      defaultView(req.MobileView, DefaultMobileView),
		ShowName:        defaultBool(req.ShowName, true),
		IsPublic:        defaultBool(req.IsPublic, true),
		LogoHeight:      defaultInt(req.LogoHeight, DefaultLogoHeight),
	}

	if !isValidView(config.DesktopView) || !isValidView(config.MobileView) {
		return nil, ErrInvalidView
	}

	if logo != nil {
		saved, err := s.blobs.Save(slugName, logo.Filename, logo.Reader)
		if err != nil {
			return nil, err
		}
		config.LogoURL = saved.URL
		config.LogoPath = saved.Path
	}

	if err := s.repo.Create(ctx, config); err != nil {
		// The record never existed, so the blob is orphaned; drop it.
		if config.LogoPath != "" {
			s.removeBlob(config.LogoPath)
		}
		return nil, err
	}

	s.logger.Info("calendar created",
		zap.String("slug", config.Slug),
		zap.String("id", config.ID.String()))
	return config, nil
}

func (s *service) Update(ctx context.Context, slugName string, req UpdateCalendarRequest, logo *LogoUpload) (*CalendarConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := s.repo.GetBySlug(ctx, slugName)
	if err != nil {
		return nil, err
	}

	// Resubmitting the current slug is a no-op; anything else is a
	// rename and gets rejected.
	if req.Slug != nil && Slugify(*req.Slug) != config.Slug {
		return nil, ErrSlugImmutable
	}

	if req.Name != nil {
		config.Name = *req.Name
	}
	if req.IncomingICSURL != nil {
		config.IncomingICSURL = *req.IncomingICSURL
	}
	if req.PrimaryColor != nil {
		config.PrimaryColor = *req.PrimaryColor
	}
	if req.AccentColor != nil {
		config.AccentColor = *req.AccentColor
	}
	if req.BackgroundColor != nil {
		config.BackgroundColor = *req.BackgroundColor
	}
	if req.TextColor != nil {
		config.TextColor = *req.TextColor
	}
	if req.TitleColor != nil {
		config.TitleColor = *req.TitleColor
	}
	if req.Timezone != nil {
		config.Timezone = *req.Timezone
	}
	if req.DesktopView != nil {
		if !isValidView(*req.DesktopView) {
			return nil, ErrInvalidView
		}
		config.DesktopView = *req.DesktopView
	}
	if req.MobileView != nil {
		if !isValidView(*req.MobileView) {
			return nil, ErrInvalidView
		}
		config.MobileView = *req.MobileView
	}
	if req.ShowName != nil {
		config.ShowName = *req.ShowName
	}
	if req.IsPublic != nil {
		config.IsPublic = *req.IsPublic
	}
	if req.LogoHeight != nil {
		config.LogoHeight = *req.LogoHeight
	}

	switch {
	case logo != nil:
		saved, err := s.blobs.Save(config.Slug, logo.Filename, logo.Reader)
		if err != nil {
			return nil, err
		}
		if config.LogoPath != "" && config.LogoPath != saved.Path {
			s.removeBlob(config.LogoPath)
		}
		config.LogoURL = saved.URL
		config.LogoPath = saved.Path
	case req.LogoURL != nil:
		// Switching to an external URL releases the uploaded blob.
		if config.LogoPath != "" {
			s.removeBlob(config.LogoPath)
			config.LogoPath = ""
		}
		config.LogoURL = *req.LogoURL
	}

	if err := s.repo.Update(ctx, config); err != nil {
		return nil, err
	}

	s.logger.Info("calendar updated", zap.String("slug", config.Slug))
	return config, nil
}

func (s *service) Delete(ctx context.Context, slugName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := s.repo.GetBySlug(ctx, slugName)
	if err != nil {
		return err
	}

	// Blob cleanup never blocks the record deletion.
	if config.LogoPath != "" {
		s.removeBlob(config.LogoPath)
	}

	if err := s.repo.Delete(ctx, slugName); err != nil {
		return err
	}

	s.logger.Info("calendar deleted", zap.String("slug", slugName))
	return nil
}

func (s *service) GetBySlug(ctx context.Context, slugName string) (*CalendarConfig, error) {
	return s.repo.GetBySlug(ctx, slugName)
}

func (s *service) GetPublicBySlug(ctx context.Context, slugName string) (*CalendarConfig, error) {
	return s.repo.GetPublicBySlug(ctx, slugName)
}

func (s *service) List(ctx context.Context) (*CalendarListResponse, error) {
	configs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &CalendarListResponse{Calendars: configs, Total: len(configs)}, nil
}

func (s *service) removeBlob(path string) {
	if err := s.blobs.Remove(path); err != nil {
		s.logger.Warn("logo cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultView(v, fallback View) View {
	if v == "" {
		return fallback
	}
	return v
}

func defaultBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func defaultInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
