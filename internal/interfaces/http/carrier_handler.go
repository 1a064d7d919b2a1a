package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/usecase"
)

// CarrierHandler maneja el catálogo de transportadoras.
type CarrierHandler struct {
	uc *usecase.CarrierUseCase
}

// NewCarrierHandler construye el handler.
func NewCarrierHandler(uc *usecase.CarrierUseCase) *CarrierHandler {
	return &CarrierHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar transportadora
// @Tags         carriers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCarrierRequest  true  "Datos de la transportadora"
// @Success      201   {object}  dto.CarrierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/carriers [post]
func (h *CarrierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Code == "" || in.Name == "" {
		return validation(c, "code y name son requeridos")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener transportadora por ID
// @Tags         carriers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transportadora"
// @Success      200  {object}  dto.CarrierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carriers/{id} [get]
func (h *CarrierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "transportadora no encontrada")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar transportadora
// @Tags         carriers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transportadora"
// @Param        body  body  dto.UpdateCarrierRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CarrierResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carriers/{id} [put]
func (h *CarrierHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "transportadora no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar transportadoras
// @Tags         carriers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.CarrierListResponse
// @Router       /api/carriers [get]
func (h *CarrierHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageFrom(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
