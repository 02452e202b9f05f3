package diary

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the diary routes on an authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/diary")
	g.POST("", h.Create)
	g.GET("/user/:userId", h.List)
	g.GET("/user/:userId/mood/:mood", h.ListByMood)
	g.GET("/user/:userId/tag/:tag", h.ListByTag)
	g.GET("/user/:userId/stats/mood", h.MoodStats)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	e, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusCreated, "Diary entry created successfully", e)
}

func (h *Handler) List(c echo.Context) error {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return err
	}
	f, err := httpx.RecordFilter(c, ownerID)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, "Diary entries retrieved successfully", items)
}

func (h *Handler) ListByMood(c echo.Context) error {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return err
	}
	f, err := httpx.RecordFilter(c, ownerID)
	if err != nil {
		return err
	}
	mood := c.Param("mood")
	items, err := h.svc.ListByMood(c.Request().Context(), f, mood)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, fmt.Sprintf("Diary entries with mood '%s' retrieved successfully", mood), items)
}

func (h *Handler) ListByTag(c echo.Context) error {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return err
	}
	f, err := httpx.RecordFilter(c, ownerID)
	if err != nil {
		return err
	}
	tag := c.Param("tag")
	items, err := h.svc.ListByTag(c.Request().Context(), f, tag)
	if err != nil {
		return err
	}
	return httpx.RespondList(c, fmt.Sprintf("Diary entries with tag '%s' retrieved successfully", tag), items)
}

func (h *Handler) MoodStats(c echo.Context) error {
	ownerID, err := owner.Parse(c.Param("userId"))
	if err != nil {
		return err
	}
	f, err := httpx.RecordFilter(c, ownerID)
	if err != nil {
		return err
	}
	stats, err := h.svc.MoodStats(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Mood statistics retrieved successfully", stats)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errEntryNotFound)
	if err != nil {
		return err
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Diary entry retrieved successfully", e)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errEntryNotFound)
	if err != nil {
		return err
	}
	var p Patch
	if err := httpx.BindStrict(c, &p); err != nil {
		return err
	}
	e, err := h.svc.Update(c.Request().Context(), id, p)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Diary entry updated successfully", e)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errEntryNotFound)
	if err != nil {
		return err
	}
	e, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httpx.Respond(c, http.StatusOK, "Diary entry deleted successfully", e)
}
