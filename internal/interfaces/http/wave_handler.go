package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/picking"
	"github.com/invorya/wms-api/internal/application/waves"
)

// WaveHandler planeación de olas y su liberación a tareas de picking.
type WaveHandler struct {
	planner *waves.Planner
	picking *picking.UseCase
}

// NewWaveHandler construye el handler.
func NewWaveHandler(planner *waves.Planner, picking *picking.UseCase) *WaveHandler {
	return &WaveHandler{planner: planner, picking: picking}
}

// Plan godoc
// @Summary      Planear ola por criterios (región, prioridad, cutoff)
// @Tags         waves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanWaveRequest  true  "Criterios de selección y topes"
// @Success      201   {object}  dto.WaveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/waves/plan [post]
func (h *WaveHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanWaveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.planner.Plan(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Create godoc
// @Summary      Crear ola manual con pedidos explícitos
// @Tags         waves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWaveRequest  true  "IDs de pedidos asignados"
// @Success      201   {object}  dto.WaveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/waves [post]
func (h *WaveHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWaveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.OrderIDs) == 0 {
		return validation(c, "order_ids es requerido")
	}
	out, err := h.planner.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ola por ID
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ola"
// @Success      200  {object}  dto.WaveResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/waves/{id} [get]
func (h *WaveHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.planner.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "ola no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar olas
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.WaveListResponse
// @Router       /api/waves [get]
func (h *WaveHandler) List(c *fiber.Ctx) error {
	out, err := h.planner.List(c.Context(), pageFrom(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Release godoc
// @Summary      Liberar ola: genera tareas de picking consolidadas
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ola"
// @Success      200  {object}  dto.ReleaseWaveResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/waves/{id}/release [post]
func (h *WaveHandler) Release(c *fiber.Ctx) error {
	out, err := h.picking.GenerateTasks(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Tasks godoc
// @Summary      Tareas de picking de una ola
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ola"
// @Success      200  {object}  dto.PickTaskListResponse
// @Router       /api/waves/{id}/tasks [get]
func (h *WaveHandler) Tasks(c *fiber.Ctx) error {
	out, err := h.picking.ListByWave(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
