package labreport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lifedoc/lifedoc/internal/platform/httpx"
)

func newTestServer(t *testing.T) (*Service, *echo.Echo, uuid.UUID) {
	t.Helper()
	svc, _, user := newTestService()
	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler(zerolog.Nop())
	NewHandler(svc).RegisterRoutes(e.Group(""))
	return svc, e, user
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	_, e, user := newTestServer(t)
	rec := do(e, http.MethodPost, "/lab-reports",
		`{"ownerId":"`+user.String()+`","reportDate":"2025-06-01","testType":"CBC","parsedResults":{"wbc":7.2}}`)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "Lab report created successfully") {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/lab-reports", `{"ownerId":"`+uuid.NewString()+`","reportDate":"2025-06-01","testType":"CBC"}`)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "User not found") {
		t.Errorf("expected 404 User not found, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_RoutesDoNotShadow(t *testing.T) {
	svc, e, user := newTestServer(t)
	mustCreate(t, svc, user, "2025-01-01", "CBC")
	mustCreate(t, svc, user, "2025-02-01", "CBC")
	mustCreate(t, svc, user, "2025-03-01", "Lipid Profile")

	base := "/lab-reports/user/" + user.String()
	tests := []struct {
		target string
		count  string
		msg    string
	}{
		{base, `"count":3`, "Lab reports retrieved successfully"},
		{base + "/latest", `"count":2`, "Latest lab reports retrieved successfully"},
		{base + "/search?testType=lipid", `"count":1`, "Lab reports retrieved successfully"},
		{base + "/test-type/CBC", `"count":2`, "Lab reports with test type 'CBC' retrieved successfully"},
		{base + "?endDate=2025-01-31", `"count":1`, "Lab reports retrieved successfully"},
	}
	for _, tt := range tests {
		rec := do(e, http.MethodGet, tt.target, "")
		body := rec.Body.String()
		if rec.Code != http.StatusOK || !strings.Contains(body, tt.count) || !strings.Contains(body, tt.msg) {
			t.Errorf("%s: unexpected response %d: %s", tt.target, rec.Code, body)
		}
	}
}

func TestHandler_BadIDs(t *testing.T) {
	_, e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/lab-reports/not-a-uuid", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Lab report not found") {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/lab-reports/user/not-a-uuid/latest", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/lab-reports/user/"+uuid.NewString()+"?startDate=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed range, got %d", rec.Code)
	}
}

func TestHandler_Update_OwnerImmutable(t *testing.T) {
	svc, e, user := newTestServer(t)
	r := mustCreate(t, svc, user, "2025-01-01", "CBC")

	rec := do(e, http.MethodPut, "/lab-reports/"+r.ID.String(), `{"ownerId":"`+uuid.NewString()+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPut, "/lab-reports/"+r.ID.String(), `{"notes":"rechecked"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rechecked") {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_GetBodyRoundTripsThroughPut(t *testing.T) {
	svc, e, user := newTestServer(t)
	r := mustCreate(t, svc, user, "2025-01-01", "CBC")

	rec := do(e, http.MethodGet, "/lab-reports/"+r.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = do(e, http.MethodPut, "/lab-reports/"+r.ID.String(), string(got.Data))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"testType":"CBC"`) {
		t.Errorf("put of fetched body: %d %s", rec.Code, rec.Body.String())
	}
}
