package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/inventory"
)

// InventoryHandler expone el libro de inventario: disponibilidad por SKU,
// ajustes manuales, historial de movimientos y lotes.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
	lots   *inventory.LotUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, lots *inventory.LotUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, lots: lots}
}

// Availability godoc
// @Summary      Disponibilidad de un SKU (existencia, reservado, disponible)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{sku} [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	out, err := h.ledger.Availability(c.Context(), c.Params("sku"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock (positivo o negativo, con razón)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "sku, location_code, quantity con signo, reason"
// @Success      200   {object}  dto.AvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.SKU == "" || in.LocationCode == "" || in.Reason == "" {
		return validation(c, "sku, location_code y reason son requeridos")
	}
	out, err := h.ledger.Adjust(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Allocate godoc
// @Summary      Reservar stock FEFO directamente contra un SKU
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateStockRequest  true  "sku, quantity, order_id opcional, allow_partial"
// @Success      200   {object}  dto.AllocateStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/allocations [post]
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.SKU == "" {
		return validation(c, "sku es requerido")
	}
	out, err := h.ledger.AllocateStock(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un SKU (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku     path   string  true   "SKU"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/inventory/{sku}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	page := pageFrom(c)
	out, err := h.ledger.Movements(c.Context(), c.Params("sku"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// CreateLot godoc
// @Summary      Registrar lote manualmente
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "sku, code, expiry_date opcional"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *InventoryHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.SKU == "" || in.Code == "" {
		return validation(c, "sku y code son requeridos")
	}
	out, err := h.lots.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLots godoc
// @Summary      Listar lotes de un SKU en orden FEFO
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        sku  query  string  true  "SKU"
// @Success      200  {array}  dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	sku := c.Query("sku")
	if sku == "" {
		return validation(c, "sku es requerido")
	}
	out, err := h.lots.ListBySKU(c.Context(), sku)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ExpiringLots godoc
// @Summary      Lotes que vencen dentro del horizonte indicado
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días del horizonte"  default(30)
// @Success      200   {object}  dto.ExpiringLotListResponse
// @Router       /api/lots/expiring [get]
func (h *InventoryHandler) ExpiringLots(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		days = 30
	}
	out, err := h.lots.Expiring(c.Context(), days)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
