package embed

import (
	"net/http"
	"strings"
)

// ResolveBaseURL computes the public base URL for generated scripts and
// snippets. Behind a reverse proxy the forwarded headers carry the real
// scheme and host; otherwise the request's own values are used. A
// configured override wins over both.
func ResolveBaseURL(r *http.Request, override string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}

	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}

	return strings.TrimRight(scheme+"://"+host, "/")
}
