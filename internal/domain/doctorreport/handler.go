package doctorreport

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/httpx"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/doctor-reports")
	g.POST("", h.Create)
	g.GET("/user/:userId", h.List)
	g.GET("/user/:userId/follow-ups", h.PendingFollowUps)
	g.GET("/user/:userId/search", h.Search)
	g.GET("/user/:userId/doctor/:doctorName", h.ListByDoctor)
	g.GET("/user/:userId/diagnosis/:diagnosis", h.ListByDiagnosis)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/prescription", h.AddPrescription)
	g.PUT("/:id/prescription/:prescriptionId", h.UpdatePrescription)
	g.DELETE("/:id/prescription/:prescriptionId", h.DeletePrescription)
}

func ownerFilter(c echo.Context) (query.Filter, error) {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return query.Filter{}, err
	}
	return httpx.RecordFilter(c, ownerID)
}

func ids(c echo.Context) (reportID, prescriptionID uuid.UUID, err error) {
	reportID, err = httpx.ParseID(c.Param("id"), errReportNotFound)
	if err != nil {
		return
	}
	prescriptionID, err = httpx.ParseID(c.Param("prescriptionId"), errPrescriptionNotFound)
	return
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	r, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusCreated, "Doctor report created successfully", r)
}

func (h *Handler) List(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, "Doctor reports retrieved successfully", items)
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	name := c.Param("doctorName")
	items, err := h.svc.ListByDoctor(c.Request().Context(), f, name)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, fmt.Sprintf("Doctor reports from Dr. %s retrieved successfully", name), items)
}

func (h *Handler) ListByDiagnosis(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	diagnosis := c.Param("diagnosis")
	items, err := h.svc.ListByDiagnosis(c.Request().Context(), f, diagnosis)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, fmt.Sprintf("Doctor reports with diagnosis '%s' retrieved successfully", diagnosis), items)
}

func (h *Handler) Search(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	items, err := h.svc.Search(c.Request().Context(), f, c.QueryParam("doctorName"), c.QueryParam("diagnosis"))
	if err != nil {
		return err
	}
	return httpx.RespondList(c, "Doctor reports retrieved successfully", items)
}

func (h *Handler) PendingFollowUps(c echo.Context) error {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return err
	}
	items, err := h.svc.PendingFollowUps(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, "Pending follow-ups retrieved successfully", items)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errReportNotFound)
	if err != nil {
		return err
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Doctor report retrieved successfully", r)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errReportNotFound)
	if err != nil {
		return err
	}
	var p Patch
	if err := httpx.BindStrict(c, &p); err != nil {
		return err
	}
	r, err := h.svc.Update(c.Request().Context(), id, p)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Doctor report updated successfully", r)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errReportNotFound)
	if err != nil {
		return err
	}
	r, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Doctor report deleted successfully", r)
}

func (h *Handler) AddPrescription(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errReportNotFound)
	if err != nil {
		return err
	}
	var in AddPrescriptionInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	if in.Prescription == nil {
		return apperr.InvalidInput("prescription is required")
	}
	r, err := h.svc.AddPrescription(c.Request().Context(), id, *in.Prescription)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Prescription added successfully", r)
}

func (h *Handler) UpdatePrescription(c echo.Context) error {
	id, prescriptionID, err := ids(c)
	if err != nil {
		return err
	}
	var p PrescriptionPatch
	if err := httpx.BindStrict(c, &p); err != nil {
		return err
	}
	r, err := h.svc.UpdatePrescription(c.Request().Context(), id, prescriptionID, p)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Prescription updated successfully", r)
}

func (h *Handler) DeletePrescription(c echo.Context) error {
	id, prescriptionID, err := ids(c)
	if err != nil {
		return err
	}
	r, err := h.svc.DeletePrescription(c.Request().Context(), id, prescriptionID)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Prescription deleted successfully", r)
}
