package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func serveWithHeaders(t *testing.T, mw echo.MiddlewareFunc, route string, req *http.Request) http.Header {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)

	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec.Header()
}

func TestSecurityHeaders_RecordRoutes(t *testing.T) {
	h := serveWithHeaders(t, SecurityHeaders(), "/measurements/:id",
		httptest.NewRequest(http.MethodGet, "/measurements/1", nil))

	expected := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":              "no-referrer",
		"Permissions-Policy":           "camera=(), microphone=(), geolocation=(), interest-cohort=()",
		"Cross-Origin-Resource-Policy": "same-site",
		"Cache-Control":                "no-store",
		"Pragma":                       "no-cache",
	}
	for header, want := range expected {
		if got := h.Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
	if got := h.Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS must not be sent over plain http, got %q", got)
	}
}

func TestSecurityHeaders_NewsIsCacheable(t *testing.T) {
	h := serveWithHeaders(t, SecurityHeaders(), "/news", httptest.NewRequest(http.MethodGet, "/news", nil))

	if got := h.Get("Cache-Control"); got != "public, max-age=300" {
		t.Errorf("expected public cache for news, got %q", got)
	}
	if got := h.Get("Pragma"); got != "" {
		t.Errorf("expected no Pragma on a cacheable route, got %q", got)
	}
}

func TestSecurityHeaders_HSTSBehindTLSProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/diary/1", nil)
	req.Header.Set(echo.HeaderXForwardedProto, "https")

	h := serveWithHeaders(t, SecurityHeaders(), "/diary/:id", req)
	if got := h.Get("Strict-Transport-Security"); got != "max-age=15552000" {
		t.Errorf("unexpected HSTS header %q", got)
	}
}

func TestSecurityHeadersWithConfig_Overrides(t *testing.T) {
	cfg := SecurityHeadersConfig{
		PublicRoutes: map[string]bool{"/health": true},
		PublicMaxAge: time.Minute,
	}
	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	req.Header.Set(echo.HeaderXForwardedProto, "https")

	h := serveWithHeaders(t, SecurityHeadersWithConfig(cfg), "/news", req)
	if got := h.Get("Cache-Control"); got != "no-store" {
		t.Errorf("news is not public under this config, got %q", got)
	}
	if got := h.Get("Strict-Transport-Security"); got != "" {
		t.Errorf("zero HSTSMaxAge must disable HSTS, got %q", got)
	}

	h = serveWithHeaders(t, SecurityHeadersWithConfig(cfg), "/health", httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := h.Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("unexpected health cache header %q", got)
	}
}
