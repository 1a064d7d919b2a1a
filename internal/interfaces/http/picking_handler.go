package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/picking"
)

// PickTaskHandler ejecución de tareas de picking por los operarios.
type PickTaskHandler struct {
	uc *picking.UseCase
}

// NewPickTaskHandler construye el handler.
func NewPickTaskHandler(uc *picking.UseCase) *PickTaskHandler {
	return &PickTaskHandler{uc: uc}
}

// GetByID godoc
// @Summary      Obtener tarea de picking por ID
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickTaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pick-tasks/{id} [get]
func (h *PickTaskHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "tarea no encontrada")
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar tarea a un operario
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.AssignPickTaskRequest  false  "user_id; vacío asigna al usuario autenticado"
// @Success      200   {object}  dto.PickTaskResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pick-tasks/{id}/assign [post]
func (h *PickTaskHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignPickTaskRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if in.UserID == "" {
		in.UserID = GetUserID(c)
	}
	out, err := h.uc.Assign(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar tarea asignada
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickTaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-tasks/{id}/start [post]
func (h *PickTaskHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar tarea con la cantidad preparada (faltante si es menor)
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.CompletePickTaskRequest  true  "picked_qty y version para control optimista"
// @Success      200   {object}  dto.PickTaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pick-tasks/{id}/complete [post]
func (h *PickTaskHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompletePickTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
