package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders_Production(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(false))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	h := rec.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q", h.Get("X-Frame-Options"))
	}
	hsts := h.Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") || !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("HSTS = %q", hsts)
	}
	if !strings.HasPrefix(h.Get("Content-Security-Policy"), "default-src 'none'") {
		t.Errorf("CSP = %q", h.Get("Content-Security-Policy"))
	}
	if h.Get("Referrer-Policy") != "strict-origin-when-cross-origin" {
		t.Errorf("Referrer-Policy = %q", h.Get("Referrer-Policy"))
	}
	if h.Get("Permissions-Policy") == "" {
		t.Error("missing Permissions-Policy header")
	}
}

func TestSecurityHeaders_DevelopmentSkipsHSTS(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(true))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should be disabled in development")
	}
}

func TestBuildCSP_Deterministic(t *testing.T) {
	directives := map[string]string{
		"default-src": "'self'",
		"img-src":     "'self' data:",
	}
	first := buildCSP(directives)
	for i := 0; i < 10; i++ {
		if got := buildCSP(directives); got != first {
			t.Fatalf("buildCSP not deterministic: %q vs %q", got, first)
		}
	}
	if first != "default-src 'self'; img-src 'self' data:" {
		t.Errorf("csp = %q", first)
	}
}
