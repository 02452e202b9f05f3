package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicRoutes are the read-only route templates reachable without a token:
// liveness, pool health, metrics and the health news feed.
var publicRoutes = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
	"/news":      true,
}

// AuthSkipper lets GET and HEAD requests to publicRoutes through. It matches
// on c.Path(), so it must run after echo has routed the request. Unmatched
// paths still go through auth so a 404 never reveals which routes exist.
func AuthSkipper(c echo.Context) bool {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead:
		return publicRoutes[c.Path()]
	default:
		return false
	}
}
