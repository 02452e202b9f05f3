package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig tunes the response headers. Record responses are never
// cacheable; only routes listed in PublicRoutes may be cached.
type SecurityHeadersConfig struct {
	// PublicRoutes are route templates whose bodies carry no personal data.
	PublicRoutes map[string]bool
	// PublicMaxAge is the browser cache lifetime for PublicRoutes.
	PublicMaxAge time.Duration
	// HSTSMaxAge is sent on https requests only. Zero disables it.
	HSTSMaxAge time.Duration
}

func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		PublicRoutes: map[string]bool{"/news": true},
		PublicMaxAge: 5 * time.Minute,
		HSTSMaxAge:   180 * 24 * time.Hour,
	}
}

// SecurityHeaders applies DefaultSecurityHeadersConfig.
func SecurityHeaders() echo.MiddlewareFunc {
	return SecurityHeadersWithConfig(DefaultSecurityHeadersConfig())
}

// SecurityHeadersWithConfig sets headers for a JSON-only API serving health
// records. It must run after routing so c.Path() is the route template.
func SecurityHeadersWithConfig(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	publicCache := fmt.Sprintf("public, max-age=%d", int(cfg.PublicMaxAge.Seconds()))
	hsts := fmt.Sprintf("max-age=%d", int(cfg.HSTSMaxAge.Seconds()))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")
			h.Set("Cross-Origin-Resource-Policy", "same-site")

			if cfg.PublicRoutes[c.Path()] && cfg.PublicMaxAge > 0 {
				h.Set("Cache-Control", publicCache)
			} else {
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
			}

			if cfg.HSTSMaxAge > 0 && c.Scheme() == "https" {
				h.Set("Strict-Transport-Security", hsts)
			}

			return next(c)
		}
	}
}
