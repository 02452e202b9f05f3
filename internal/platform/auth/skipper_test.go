package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAuthSkipper(t *testing.T) {
	tests := []struct {
		method string
		route  string
		want   bool
	}{
		{http.MethodGet, "/health", true},
		{http.MethodHead, "/health/db", true},
		{http.MethodGet, "/metrics", true},
		{http.MethodGet, "/news", true},
		{http.MethodPost, "/news", false},
		{http.MethodDelete, "/health", false},
		{http.MethodGet, "/diary/user/:userId", false},
		{http.MethodGet, "/admin/stats", false},
		{http.MethodGet, "", false},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.route, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(tt.method, "/", nil), httptest.NewRecorder())
			c.SetPath(tt.route)
			if got := AuthSkipper(c); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestJWTMiddleware_PublicRouteWriteNeedsToken(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/news", nil), httptest.NewRecorder())
	c.SetPath("/news")

	called := false
	err := JWTMiddleware(JWTConfig{SigningKey: testSigningKey, Skipper: AuthSkipper})(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if called {
		t.Error("handler must not run without a token")
	}
	expectUnauthorized(t, err, "No token provided")
}
