package labreport

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
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
	g := api.Group("/lab-reports")
	g.POST("", h.Create)
	g.GET("/user/:userId", h.List)
	g.GET("/user/:userId/latest", h.Latest)
	g.GET("/user/:userId/search", h.Search)
	g.GET("/user/:userId/test-type/:testType", h.ListByTestType)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
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
	r, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusCreated, "Lab report created successfully", r)
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
	return httpx.RespondList(c, "Lab reports retrieved successfully", items)
}

func (h *Handler) ListByTestType(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	testType := c.Param("testType")
	items, err := h.svc.ListByTestType(c.Request().Context(), f, testType)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, fmt.Sprintf("Lab reports with test type '%s' retrieved successfully", testType), items)
}

func (h *Handler) Latest(c echo.Context) error {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return err
	}
	items, err := h.svc.Latest(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, "Latest lab reports retrieved successfully", items)
}

func (h *Handler) Search(c echo.Context) error {
	f, err := ownerFilter(c)
	if err != nil {
		return err
	}
	items, err := h.svc.Search(c.Request().Context(), f, c.QueryParam("testType"))
	if err != nil {
		return err
	}
	return httpx.RespondList(c, "Lab reports retrieved successfully", items)
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
	return httpx.Respond(c, http.StatusOK, "Lab report retrieved successfully", r)
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
	return httpx.Respond(c, http.StatusOK, "Lab report updated successfully", r)
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
	return httpx.Respond(c, http.StatusOK, "Lab report deleted successfully", r)
}
