package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/packing"
)

// PackingHandler empaque: lista de empaque en PDF y cierre del empaque.
type PackingHandler struct {
	uc *packing.UseCase
}

// NewPackingHandler construye el handler.
func NewPackingHandler(uc *packing.UseCase) *PackingHandler {
	return &PackingHandler{uc: uc}
}

// Slip godoc
// @Summary      Lista de empaque del pedido en PDF
// @Tags         packing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/packing-slip [get]
func (h *PackingHandler) Slip(c *fiber.Ctx) error {
	pdf, err := h.uc.PackingSlip(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="empaque-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}

// Complete godoc
// @Summary      Marcar pedido como empacado
// @Tags         packing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pack [post]
func (h *PackingHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.CompletePacking(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
