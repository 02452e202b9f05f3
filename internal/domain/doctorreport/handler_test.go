package doctorreport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestHandler_CreateAndGet(t *testing.T) {
	_, e, user := newTestServer(t)
	body := `{"ownerId":"` + user.String() + `","visitDate":"2025-06-01","doctorName":"Dr. Rao",` +
		`"diagnosis":"Flu","summary":"Rest","prescriptions":[{"medicine":"Paracetamol","dosage":"500mg"}]}`
	rec := do(e, http.MethodPost, "/doctor-reports", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Message string `json:"message"`
		Data    Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Doctor report created successfully", env.Message)
	require.Len(t, env.Data.Prescriptions, 1)

	rec = do(e, http.MethodGet, "/doctor-reports/"+env.Data.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Paracetamol")
}

func TestHandler_Lookups(t *testing.T) {
	svc, e, user := newTestServer(t)
	mustCreate(t, svc, validInput(user))

	base := "/doctor-reports/user/" + user.String()
	rec := do(e, http.MethodGet, base+"/doctor/"+url.PathEscape("meera"), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doctor reports from Dr. meera retrieved successfully")
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(e, http.MethodGet, base+"/diagnosis/"+url.PathEscape("Type 2 Diabetes"), "")
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(e, http.MethodGet, base+"/search?diagnosis=Flu", "")
	assert.Contains(t, rec.Body.String(), `"count":0`)

	rec = do(e, http.MethodGet, base+"/follow-ups", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pending follow-ups retrieved successfully")
}

func TestHandler_Prescriptions(t *testing.T) {
	svc, e, user := newTestServer(t)
	r := mustCreate(t, svc, validInput(user))
	base := "/doctor-reports/" + r.ID.String() + "/prescription"

	rec := do(e, http.MethodPost, base, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, base, `{"prescription":{"medicine":"Aspirin"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prescription added successfully")

	rec = do(e, http.MethodPut, base+"/"+r.Prescriptions[0].ID.String(), `{"dosage":"850mg"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "850mg")

	rec = do(e, http.MethodDelete, base+"/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prescription not found")

	rec = do(e, http.MethodDelete, "/doctor-reports/"+uuid.NewString()+"/prescription/"+r.Prescriptions[0].ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doctor report not found")
}

func TestHandler_GetBodyRoundTripsThroughPut(t *testing.T) {
	svc, e, user := newTestServer(t)
	in := validInput(user)
	in.FollowUpDate = strPtr("2025-07-01")
	r := mustCreate(t, svc, in)
	metformin := r.Prescriptions[0].ID

	rec := do(e, http.MethodGet, "/doctor-reports/"+r.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	rec = do(e, http.MethodPut, "/doctor-reports/"+r.ID.String(), string(got.Data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Prescriptions, 2)
	assert.Equal(t, r.Prescriptions[0].ID, env.Data.Prescriptions[0].ID)
	assert.Equal(t, r.Prescriptions[1].ID, env.Data.Prescriptions[1].ID)

	rec = do(e, http.MethodPut, "/doctor-reports/"+r.ID.String()+"/prescription/"+metformin.String(), `{"dosage":"850mg"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
