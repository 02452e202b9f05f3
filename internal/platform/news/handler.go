package news

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	agg *Aggregator
}

func NewHandler(agg *Aggregator) *Handler {
	return &Handler{agg: agg}
}

// RegisterRoutes mounts GET /news. It is public and always answers 200.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/news", h.Headlines)
}

func (h *Handler) Headlines(c echo.Context) error {
	return c.JSON(http.StatusOK, h.agg.Headlines(c.Request().Context()))
}
