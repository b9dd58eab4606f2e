package embed

import (
	"bytes"
	"context"
	stdembed "embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strings"
	texttemplate "text/template"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
)

//go:embed templates/embed_page.html.tmpl templates/embed_script.js.tmpl
var templateFS stdembed.FS

// EmbedCode holds the copy-pasteable snippets shown to operators.
type EmbedCode struct {
	IframeSrc  string `json:"iframe_src"`
	IframeCode string `json:"iframe_code"`
	ScriptSrc  string `json:"script_src"`
	ScriptCode string `json:"script_code"`
}

// Service produces the public embed surfaces for a calendar: the
// standalone iframe page, the self-configuring loader script, and the
// operator-facing snippets.
type Service interface {
	RenderEmbedPage(ctx context.Context, slug string) ([]byte, error)
	RenderEmbedScript(ctx context.Context, slug string, r *http.Request) ([]byte, error)
	BuildEmbedCode(ctx context.Context, slug string, r *http.Request) (*EmbedCode, error)
}

type service struct {
	tenants      tenant.Repository
	baseOverride string
	pageTmpl     *htmltemplate.Template
	scriptTmpl   *texttemplate.Template
}

// NewService creates an embed service. baseOverride, when non-empty,
// pins the public base URL instead of deriving it per request.
func NewService(tenants tenant.Repository, baseOverride string) (Service, error) {
	pageTmpl, err := htmltemplate.ParseFS(templateFS, "templates/embed_page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse embed page template: %w", err)
	}
	scriptTmpl, err := texttemplate.ParseFS(templateFS, "templates/embed_script.js.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse embed script template: %w", err)
	}
	return &service{
		tenants:      tenants,
		baseOverride: strings.TrimRight(baseOverride, "/"),
		pageTmpl:     pageTmpl,
		scriptTmpl:   scriptTmpl,
	}, nil
}

type pageData struct {
	Name            string
	LogoURL         string
	LogoHeight      int
	ShowName        bool
	PrimaryColor    string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	TitleColor      string
	Timezone        string
	DesktopView     tenant.View
	MobileView      tenant.View
	ICSURL          string
}

// RenderEmbedPage renders the standalone widget page. The page is
// served same-origin inside the iframe, so the proxy and stylesheet
// URLs stay relative. html/template escapes every tenant field for its
// HTML, CSS or JS context.
func (s *service) RenderEmbedPage(ctx context.Context, slug string) ([]byte, error) {
	config, err := s.tenants.GetPublicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Name:            config.Name,
		LogoURL:         config.LogoURL,
		LogoHeight:      config.LogoHeight,
		ShowName:        config.ShowName,
		PrimaryColor:    config.PrimaryColor,
		AccentColor:     config.AccentColor,
		BackgroundColor: config.BackgroundColor,
		TextColor:       config.TextColor,
		TitleColor:      config.TitleColor,
		Timezone:        config.Timezone,
		DesktopView:     config.DesktopView,
		MobileView:      config.MobileView,
		ICSURL:          "/api/cal/" + config.Slug + "/ics",
	}

	var buf bytes.Buffer
	if err := s.pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render embed page: %w", err)
	}
	return buf.Bytes(), nil
}

// scriptConfig is the widget configuration baked into the generated
// loader. It crosses into the page as a single JSON literal; the
// marshaller's HTML escaping keeps it inert in any surrounding context,
// and the script applies values through DOM APIs rather than markup
// concatenation.
type scriptConfig struct {
	Name            string      `json:"name"`
	ShowName        bool        `json:"showName"`
	LogoURL         string      `json:"logoUrl"`
	LogoHeight      int         `json:"logoHeight"`
	Timezone        string      `json:"timezone"`
	DesktopView     tenant.View `json:"desktopView"`
	MobileView      tenant.View `json:"mobileView"`
	PrimaryColor    string      `json:"primaryColor"`
	AccentColor     string      `json:"accentColor"`
	BackgroundColor string      `json:"backgroundColor"`
	TextColor       string      `json:"textColor"`
	TitleColor      string      `json:"titleColor"`
	ThemeCSSURL     string      `json:"themeCssUrl"`
	ICSURL          string      `json:"icsUrl"`
}

// RenderEmbedScript generates the tenant's loader script. Output is
// deterministic for an unchanged config and base URL.
func (s *service) RenderEmbedScript(ctx context.Context, slug string, r *http.Request) ([]byte, error) {
	config, err := s.tenants.GetPublicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	base := ResolveBaseURL(r, s.baseOverride)

	cfg := scriptConfig{
		Name:            config.Name,
		ShowName:        config.ShowName,
		LogoURL:         absoluteLogoURL(config.LogoURL, base),
		LogoHeight:      config.LogoHeight,
		Timezone:        config.Timezone,
		DesktopView:     config.DesktopView,
		MobileView:      config.MobileView,
		PrimaryColor:    config.PrimaryColor,
		AccentColor:     config.AccentColor,
		BackgroundColor: config.BackgroundColor,
		TextColor:       config.TextColor,
		TitleColor:      config.TitleColor,
		ThemeCSSURL:     base + "/static/styles.css",
		ICSURL:          base + "/api/cal/" + config.Slug + "/ics",
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal script config: %w", err)
	}

	var buf bytes.Buffer
	err = s.scriptTmpl.Execute(&buf, struct{ ConfigJSON string }{ConfigJSON: string(configJSON)})
	if err != nil {
		return nil, fmt.Errorf("render embed script: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildEmbedCode composes the operator snippets. Admin-gated, so the
// non-public filter does not apply here.
func (s *service) BuildEmbedCode(ctx context.Context, slug string, r *http.Request) (*EmbedCode, error) {
	config, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	base := ResolveBaseURL(r, s.baseOverride)
	iframeSrc := base + "/c/" + config.Slug + "/embed"
	scriptSrc := base + "/c/" + config.Slug + "/embed.js"

	return &EmbedCode{
		IframeSrc:  iframeSrc,
		IframeCode: fmt.Sprintf(`<iframe src=%q style="border:0;width:100%%;height:600px"></iframe>`, iframeSrc),
		ScriptSrc:  scriptSrc,
		ScriptCode: fmt.Sprintf(`<div id="calendar-container"></div><script src=%q></script>`, scriptSrc),
	}, nil
}

// absoluteLogoURL makes the logo URL usable from a third-party page.
// Absolute http(s) URLs pass through, storage-relative paths get the
// base prefix, anything else (including javascript: and data: schemes)
// is dropped.
func absoluteLogoURL(logoURL, base string) string {
	switch {
	case logoURL == "":
		return ""
	case strings.HasPrefix(logoURL, "http://"), strings.HasPrefix(logoURL, "https://"):
		return logoURL
	case strings.HasPrefix(logoURL, "/"):
		return base + logoURL
	default:
		return ""
	}
}
