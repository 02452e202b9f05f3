package reference

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifedoc/lifedoc/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type medicineResponse struct {
	Message  string    `json:"message"`
	Medicine *Medicine `json:"medicine"`
}

type labTestResponse struct {
	Message string   `json:"message"`
	LabTest *LabTest `json:"labTest"`
}

// RegisterRoutes mounts the reference catalogue on the admin-only group.
func (h *Handler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/medicines", h.ListMedicines)
	admin.POST("/medicines", h.AddMedicine)
	admin.PUT("/medicines/:id", h.UpdateMedicine)
	admin.DELETE("/medicines/:id", h.DeleteMedicine)

	admin.GET("/lab-tests", h.ListLabTests)
	admin.POST("/lab-tests", h.AddLabTest)
	admin.PUT("/lab-tests/:id", h.UpdateLabTest)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	items, err := h.svc.ListMedicines(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddMedicine(c echo.Context) error {
	var in MedicineInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	m, err := h.svc.AddMedicine(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, medicineResponse{Message: "Medicine added successfully", Medicine: m})
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMedicineNotFound)
	if err != nil {
		return err
	}
	var in MedicineInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	m, err := h.svc.UpdateMedicine(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, medicineResponse{Message: "Medicine updated successfully", Medicine: m})
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errMedicineNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMedicine(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, httpx.Message{Message: "Medicine deleted successfully"})
}

func (h *Handler) ListLabTests(c echo.Context) error {
	items, err := h.svc.ListLabTests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddLabTest(c echo.Context) error {
	var in LabTestInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	t, err := h.svc.AddLabTest(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, labTestResponse{Message: "Lab Test added successfully", LabTest: t})
}

func (h *Handler) UpdateLabTest(c echo.Context) error {
	id, err := httpx.ParseID(c.Param("id"), errLabTestNotFound)
	if err != nil {
		return err
	}
	var in LabTestInput
	if err := httpx.BindStrict(c, &in); err != nil {
		return err
	}
	t, err := h.svc.UpdateLabTest(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, labTestResponse{Message: "Lab Test updated successfully", LabTest: t})
}
