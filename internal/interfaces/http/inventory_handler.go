package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
)

// InventoryHandler expone los reportes de reposición y de ventas.
type InventoryHandler struct {
	replenishment *inventory.ReplenishmentUseCase
	report        *analytics.SalesReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment *inventory.ReplenishmentUseCase, report *analytics.SalesReportUseCase) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment, report: report}
}

// LowStock godoc
// @Summary      Variantes con stock bajo agrupadas por proveedor
// @Description  Incluye la cantidad sugerida (2×umbral − stock, mínimo 1) y el último precio de compra.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (por defecto el configurado)"
// @Success      200  {object}  dto.LowStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "INVALID_PARAMS", "threshold debe ser un entero")
		}
		threshold = &n
	}
	out, err := h.replenishment.LowStock(c.Context(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesReport godoc
// @Summary      Resumen de ventas del período
// @Description  Rango [from, to). Por defecto desde el inicio del mes hasta ahora.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200   {object}  dto.SalesReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics/sales [get]
func (h *InventoryHandler) SalesReport(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", "from: "+err.Error())
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", "to: "+err.Error())
	}
	out, err := h.report.Report(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseDate acepta RFC3339 o YYYY-MM-DD (UTC). Vacío devuelve el tiempo cero.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
