package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jportilla/tiendas-api/internal/application/analytics"
	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain"
)

// DashboardHandler expone los agregados del panel y la actividad reciente.
type DashboardHandler struct {
	dashboard *analytics.DashboardUseCase
	activity  *analytics.ActivityUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *analytics.DashboardUseCase, activity *analytics.ActivityUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, activity: activity}
}

// StoreSummary godoc
// @Summary      Resumen de una tienda para un período
// @Description  Períodos: today, week, month, year, total (defecto total).
// @Description  Una tienda inexistente devuelve el resumen en cero.
// @Tags         dashboard
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        period    query  string  false  "Período"  default(total)
// @Success      200       {object}  dto.StoreSummaryResponse
// @Router       /api/dashboard/store-summary/{store_id} [get]
func (h *DashboardHandler) StoreSummary(c *fiber.Ctx) error {
	out, err := h.dashboard.GetStoreSummary(c.Context(), c.Params("store_id"), c.Query("period", "total"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TopStore godoc
// @Summary      Tienda con mejor balance del período
// @Tags         dashboard
// @Produce      json
// @Param        period  query  string  false  "Período"  default(total)
// @Success      200     {object}  dto.TopStoreResponse
// @Router       /api/dashboard/top-store [get]
func (h *DashboardHandler) TopStore(c *fiber.Ctx) error {
	out, err := h.dashboard.GetTopStore(c.Context(), c.Query("period", "total"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RecentActivity godoc
// @Summary      Actividad reciente de una tienda
// @Description  Devuelve los últimos días con movimiento hasta la fecha de
// @Description  referencia, con cantidades por producto, más el inventario.
// @Tags         dashboard
// @Produce      json
// @Param        store_id   path   string  true   "ID de la tienda"
// @Param        date       query  string  false  "Fecha de referencia YYYY-MM-DD"
// @Param        limit_ops  query  int     false  "Máximo de días"  default(5)
// @Success      200        {object}  dto.RecentActivityResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/dashboard/recent-activity/{store_id} [get]
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	out, err := h.activity.RecentActivity(c.Context(), c.Params("store_id"), c.Query("date"), c.QueryInt("limit_ops", 0))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tienda no encontrada"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
