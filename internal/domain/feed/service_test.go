package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sampleICS = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"

func newTestRepo(t *testing.T) tenant.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tenant.CalendarConfig{}))
	return tenant.NewRepository(db)
}

func createCalendar(t *testing.T, repo tenant.Repository, slug, feedURL string) {
	t.Helper()
	err := repo.Create(context.Background(), &tenant.CalendarConfig{
		Name:           slug,
		Slug:           slug,
		IncomingICSURL: feedURL,
		IsPublic:       true,
	})
	require.NoError(t, err)
}

func TestFetchICSSuccess(t *testing.T) {
	var gotUA string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(sampleICS))
	}))
	defer upstream.Close()

	repo := newTestRepo(t)
	createCalendar(t, repo, "ok", upstream.URL)

	svc := NewService(repo, 5*time.Second, "CalendarHub", zap.NewNop())
	body, err := svc.FetchICS(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, sampleICS, string(body))
	assert.Equal(t, "CalendarHub", gotUA)
}

func TestFetchICSMissingTenantAndFeed(t *testing.T) {
	repo := newTestRepo(t)
	createCalendar(t, repo, "nofeed", "")

	svc := NewService(repo, 5*time.Second, "CalendarHub", zap.NewNop())

	tests := []struct {
		name string
		slug string
	}{
		{"unknown tenant", "missing"},
		{"tenant without feed url", "nofeed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FetchICS(context.Background(), tt.slug)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFetchICSUpstreamStatusError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "secret upstream detail", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	repo := newTestRepo(t)
	createCalendar(t, repo, "bad", upstream.URL)

	svc := NewService(repo, 5*time.Second, "CalendarHub", zap.NewNop())
	body, err := svc.FetchICS(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, body)
	// The upstream body must not leak through the error.
	assert.NotContains(t, err.Error(), "secret upstream detail")
}

func TestFetchICSUnreachableHost(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close() // nothing listens here anymore

	repo := newTestRepo(t)
	createCalendar(t, repo, "gone", url)

	svc := NewService(repo, 5*time.Second, "CalendarHub", zap.NewNop())
	_, err := svc.FetchICS(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchICSTimeoutBound(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer upstream.Close()
	defer close(release)

	repo := newTestRepo(t)
	createCalendar(t, repo, "slow", upstream.URL)

	svc := NewService(repo, 200*time.Millisecond, "CalendarHub", zap.NewNop())

	start := time.Now()
	_, err := svc.FetchICS(context.Background(), "slow")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Less(t, elapsed, 2*time.Second, "a hanging upstream must fail within the timeout, not hang the proxy")
}
