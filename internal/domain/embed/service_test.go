package embed

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, baseOverride string) (Service, tenant.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tenant.CalendarConfig{}))

	repo := tenant.NewRepository(db)
	svc, err := NewService(repo, baseOverride)
	require.NoError(t, err)
	return svc, repo
}

func themedConfig(slug string) *tenant.CalendarConfig {
	return &tenant.CalendarConfig{
		Name:            "Town Hall",
		Slug:            slug,
		IncomingICSURL:  "https://example.com/feed.ics",
		PrimaryColor:    "#101010",
		AccentColor:     "#202020",
		BackgroundColor: "#303030",
		TextColor:       "#404040",
		TitleColor:      "#505050",
		Timezone:        "Europe/Vienna",
		DesktopView:     tenant.ViewWeek,
		MobileView:      tenant.ViewList,
		LogoHeight:      48,
		ShowName:        true,
		IsPublic:        true,
	}
}

func TestRenderEmbedPageContainsThemeValues(t *testing.T) {
	svc, repo := newTestService(t, "")
	require.NoError(t, repo.Create(context.Background(), themedConfig("town")))

	page, err := svc.RenderEmbedPage(context.Background(), "town")
	require.NoError(t, err)
	html := string(page)

	for _, want := range []string{"#101010", "#202020", "#303030", "#404040", "#505050"} {
		assert.Contains(t, html, want)
	}
	assert.Contains(t, html, "Town Hall")
	assert.Contains(t, html, "Europe/Vienna")
	assert.Contains(t, html, "timeGridWeek")
	assert.Contains(t, html, "listWeek")
	assert.Contains(t, html, "/api/cal/town/ics")
	assert.Contains(t, html, "height: 48px")
}

func TestRenderEmbedPageEscapesUserValues(t *testing.T) {
	svc, repo := newTestService(t, "")
	config := themedConfig("sharp")
	config.Name = `<script>alert("x")</script>`
	config.LogoURL = `/uploads/sharp/a"b.png`
	require.NoError(t, repo.Create(context.Background(), config))

	page, err := svc.RenderEmbedPage(context.Background(), "sharp")
	require.NoError(t, err)
	html := string(page)

	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, `src="/uploads/sharp/a"b.png"`)
}

func TestRenderEmbedPageNotFound(t *testing.T) {
	svc, repo := newTestService(t, "")
	hidden := themedConfig("hidden")
	hidden.IsPublic = false
	require.NoError(t, repo.Create(context.Background(), hidden))

	tests := []struct {
		name string
		slug string
	}{
		{"nonexistent tenant", "missing"},
		{"non-public tenant", "hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RenderEmbedPage(context.Background(), tt.slug)
			assert.ErrorIs(t, err, tenant.ErrNotFound)
		})
	}
}

func TestRenderEmbedScriptDeterministic(t *testing.T) {
	svc, repo := newTestService(t, "")
	require.NoError(t, repo.Create(context.Background(), themedConfig("det")))

	r := httptest.NewRequest("GET", "http://calhub.example/c/det/embed.js", nil)

	first, err := svc.RenderEmbedScript(context.Background(), "det", r)
	require.NoError(t, err)
	second, err := svc.RenderEmbedScript(context.Background(), "det", r)
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged config must produce byte-identical script output")
}

func TestRenderEmbedScriptURLs(t *testing.T) {
	svc, repo := newTestService(t, "")
	config := themedConfig("urls")
	config.LogoURL = "/uploads/urls/logo.png"
	require.NoError(t, repo.Create(context.Background(), config))

	r := httptest.NewRequest("GET", "http://internal:8080/c/urls/embed.js", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Header.Set("X-Forwarded-Host", "cal.example.org")

	script, err := svc.RenderEmbedScript(context.Background(), "urls", r)
	require.NoError(t, err)
	js := string(script)

	assert.Contains(t, js, `"icsUrl":"https://cal.example.org/api/cal/urls/ics"`)
	assert.Contains(t, js, `"logoUrl":"https://cal.example.org/uploads/urls/logo.png"`)
	assert.Contains(t, js, `"themeCssUrl":"https://cal.example.org/static/styles.css"`)
}

func TestRenderEmbedScriptEscapesConfig(t *testing.T) {
	svc, repo := newTestService(t, "")
	config := themedConfig("inj")
	config.Name = `</script><script>alert(1)</script>`
	config.PrimaryColor = `red;}</style>`
	config.LogoURL = `javascript:alert(1)`
	require.NoError(t, repo.Create(context.Background(), config))

	r := httptest.NewRequest("GET", "http://calhub.example/c/inj/embed.js", nil)
	script, err := svc.RenderEmbedScript(context.Background(), "inj", r)
	require.NoError(t, err)
	js := string(script)

	// json.Marshal's HTML escaping keeps markup inert inside the script.
	assert.NotContains(t, js, `</script><script>`)
	assert.Contains(t, js, `</script>`)
	// Unsafe logo schemes are dropped entirely.
	assert.Contains(t, js, `"logoUrl":""`)
}

func TestRenderEmbedScriptNotFoundForNonPublic(t *testing.T) {
	svc, repo := newTestService(t, "")
	hidden := themedConfig("quiet")
	hidden.IsPublic = false
	require.NoError(t, repo.Create(context.Background(), hidden))

	r := httptest.NewRequest("GET", "http://calhub.example/c/quiet/embed.js", nil)
	_, err := svc.RenderEmbedScript(context.Background(), "quiet", r)
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		proto    string
		host     string
		override string
		expected string
	}{
		{"request fallback", "", "", "", "http://origin.example"},
		{"forwarded headers", "https", "public.example", "", "https://public.example"},
		{"forwarded proto only", "https", "", "", "https://origin.example"},
		{"override wins", "https", "public.example", "https://pinned.example/", "https://pinned.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://origin.example/x", nil)
			if tt.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if tt.host != "" {
				r.Header.Set("X-Forwarded-Host", tt.host)
			}
			assert.Equal(t, tt.expected, ResolveBaseURL(r, tt.override))
		})
	}
}

func TestBuildEmbedCode(t *testing.T) {
	svc, repo := newTestService(t, "")

	// Embed code is admin-gated, so a non-public calendar still works.
	config := themedConfig("snips")
	config.IsPublic = false
	require.NoError(t, repo.Create(context.Background(), config))

	r := httptest.NewRequest("GET", "http://calhub.example/admin/api/calendars/snips/embed-code", nil)
	code, err := svc.BuildEmbedCode(context.Background(), "snips", r)
	require.NoError(t, err)

	assert.Equal(t, "http://calhub.example/c/snips/embed", code.IframeSrc)
	assert.Equal(t, "http://calhub.example/c/snips/embed.js", code.ScriptSrc)
	assert.Equal(t, 1, strings.Count(code.IframeCode, code.IframeSrc))
	assert.Equal(t, 1, strings.Count(code.ScriptCode, code.ScriptSrc))
	assert.Contains(t, code.ScriptCode, `<div id="calendar-container"></div>`)
}
