package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/httpx"
	"github.com/lifedoc/lifedoc/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account console on the admin-only group.
func (h *Handler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/stats", h.Stats)
	admin.GET("/users", h.List)
	admin.DELETE("/users/:id", h.Delete)
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) List(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), pagination.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), owner.ErrUserNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, httpx.Message{Message: "User deleted successfully"})
}
