package measurement

import (
	"fmt"
	"net/http"

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
	g := api.Group("/measurements")
	g.POST("", h.Create)
	g.GET("/user/:userId", h.List)
	g.GET("/user/:userId/type/:type", h.ListByType)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/reading", h.AddReading)
	g.PUT("/:id/reading/:readingId", h.UpdateReading)
	g.DELETE("/:id/reading/:readingId", h.DeleteReading)
}

func ownerFilter(c echo.Context) (query.Filter, error) {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return query.Filter{}, err
	}
	return httpx.RecordFilter(c, ownerID)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	m, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusCreated, "Measurement recorded successfully", m)
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
	return httpx.RespondList(c, "Measurements retrieved successfully", items)
}

func (h *Handler) ListByType(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	readingType := c.Param("type")
	items, err := h.svc.ListByType(c.Request().Context(), f, readingType)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, fmt.Sprintf("%s measurements retrieved successfully", readingType), items)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMeasurementNotFound)
	if err != nil {
		return err
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Measurement retrieved successfully", m)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMeasurementNotFound)
	if err != nil {
		return err
	}
	var p Patch
	if err := httpx.BindStrict(c, &p); err != nil {
		return err
	}
	m, err := h.svc.Update(c.Request().Context(), id, p)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Measurement updated successfully", m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMeasurementNotFound)
	if err != nil {
		return err
	}
	m, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Measurement deleted successfully", m)
}

func (h *Handler) AddReading(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMeasurementNotFound)
	if err != nil {
		return err
	}
	var in AddReadingInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	if in.Reading == nil {
		return apperr.InvalidInput("reading is required")
	}
	m, err := h.svc.AddReading(c.Request().Context(), id, *in.Reading)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Reading added successfully", m)
}

func (h *Handler) UpdateReading(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMeasurementNotFound)
	if err != nil {
		return err
	}
	readingID, err := httpx.ParseID(c.Param("readingId"), errReadingNotFound)
	if err != nil {
		return err
	}
	var p ReadingPatch
	if err := httpx.BindStrict(c, &p); err != nil {
		return err
	}
	m, err := h.svc.UpdateReading(c.Request().Context(), id, readingID, p)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Reading updated successfully", m)
}

func (h *Handler) DeleteReading(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMeasurementNotFound)
	if err != nil {
		return err
	}
	readingID, err := httpx.ParseID(c.Param("readingId"), errReadingNotFound)
	if err != nil {
		return err
	}
	m, err := h.svc.DeleteReading(c.Request().Context(), id, readingID)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Reading deleted successfully", m)
}
