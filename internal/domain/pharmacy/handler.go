package pharmacy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/errs"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/medicines", h.CreateMedicine, auth.RequireRole("admin"))
	api.GET("/medicines", h.ListMedicines, auth.RequireRole("pharmacy", "doctor", "billing"))
	api.GET("/medicines/:id", h.GetMedicine, auth.RequireRole("pharmacy", "doctor", "billing"))
	api.PUT("/medicines/:id", h.UpdateMedicine, auth.RequireRole("pharmacy"))
	api.PUT("/medicines/:id/stock", h.UpdateStock, auth.RequireRole("pharmacy"))
	api.GET("/alerts", h.RecentAlerts, auth.RequireRole("pharmacy"))
}

func (h *Handler) CreateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedicine(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMedicine(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMedicine(c.Request().Context(), &m); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		items []*Medicine
		total int
		err   error
	)
	if c.QueryParam("sort") == "stock" {
		items, total, err = h.svc.ListByStock(ctx, pg.Limit, pg.Offset)
	} else {
		items, total, err = h.svc.ListMedicines(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		StockQuantity int `json:"stock_quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	alerts, err := h.svc.UpdateStock(c.Request().Context(), id, req.StockQuantity)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stock_quantity": req.StockQuantity,
		"alerts":         alerts,
	})
}

func (h *Handler) RecentAlerts(c echo.Context) error {
	alerts, err := h.svc.RecentAlerts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, alerts)
}
