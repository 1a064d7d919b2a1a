package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/invorya/wms-api/internal/application/analytics"
)

// DashboardHandler tablero operativo y valoración del inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen operativo: trabajo abierto y valor del inventario
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valoración del inventario a costo promedio, por SKU
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/valuation [get]
func (h *DashboardHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.uc.GetValuation(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ValuationXLSX godoc
// @Summary      Valoración del inventario como libro de Excel
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/valuation.xlsx [get]
func (h *DashboardHandler) ValuationXLSX(c *fiber.Ctx) error {
	book, err := h.uc.ExportValuation(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	name := "valoracion-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(book)
}
