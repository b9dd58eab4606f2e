package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"go.uber.org/zap"
)

var (
	// ErrNotFound covers both a missing calendar and a calendar without
	// a configured feed. Callers must not be able to tell these apart.
	ErrNotFound = errors.New("calendar or feed not found")
	// ErrUpstream is returned for transport failures and non-success
	// upstream statuses. The upstream body is never relayed on failure.
	ErrUpstream = errors.New("ics fetch failed")
)

// ContentType is the media type the proxy re-serves feeds as.
const ContentType = "text/calendar"

// Service proxies a tenant's upstream ICS feed so the client widget can
// fetch it same-origin.
type Service interface {
	FetchICS(ctx context.Context, slug string) ([]byte, error)
}

type service struct {
	tenants   tenant.Repository
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewService creates a feed proxy service. The client timeout bounds
// every upstream fetch; a hanging upstream fails the request instead of
// holding it open.
func NewService(tenants tenant.Repository, timeout time.Duration, userAgent string, logger *zap.Logger) Service {
	return &service{
		tenants: tenants,
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// FetchICS performs exactly one upstream fetch per call. There is no
// cache: widgets poll on the order of minutes and the proxy is not in
// any write path.
func (s *service) FetchICS(ctx context.Context, slug string) ([]byte, error) {
	config, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if config.IncomingICSURL == "" {
		return nil, ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.IncomingICSURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("ics upstream fetch failed",
			zap.String("slug", slug),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		s.logger.Error("ics upstream returned non-success status",
			zap.String("slug", slug),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return body, nil
}
