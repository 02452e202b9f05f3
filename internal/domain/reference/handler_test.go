package reference

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lifedoc/lifedoc/internal/platform/httpx"
)

func newTestServer() *echo.Echo {
	svc, _, _ := newTestService()
	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler(zerolog.Nop())
	NewHandler(svc).RegisterRoutes(e.Group("/admin"))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Medicines(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/admin/medicines", `{"name":"Paracetamol","description":"Analgesic","uses":"fever, pain"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"message":"Medicine added successfully"`) || !strings.Contains(body, `"uses":["fever","pain"]`) {
		t.Errorf("unexpected body %s", body)
	}

	rec = do(e, http.MethodGet, "/admin/medicines?search=para", "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "[") {
		t.Errorf("expected a bare array, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/admin/medicines", `{"name":"X"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Name and Description are required") {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/admin/medicines/not-an-id", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_LabTests_NoDelete(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/admin/lab-tests", `{"name":"CBC","description":"Complete blood count"}`)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"labTest"`) {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/admin/lab-tests/00000000-0000-0000-0000-000000000000", "")
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected no delete route, got %d", rec.Code)
	}
}
