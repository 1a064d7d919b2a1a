package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/shipping"
)

// ShipmentHandler despacho: creación del envío, selección de transportadora,
// etiqueta PDF y seguimiento.
type ShipmentHandler struct {
	uc *shipping.UseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipping.UseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear envío para un pedido empacado
// @Tags         shipping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "order_id"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.OrderID == "" {
		return validation(c, "order_id es requerido")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SelectCarrier godoc
// @Summary      Elegir transportadora por costo y confiabilidad
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/select-carrier [post]
func (h *ShipmentHandler) SelectCarrier(c *fiber.Ctx) error {
	out, err := h.uc.SelectCarrier(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Label godoc
// @Summary      Etiqueta de envío en PDF con código de barras del tracking
// @Tags         shipping
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/label [get]
func (h *ShipmentHandler) Label(c *fiber.Ctx) error {
	pdf, err := h.uc.Label(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="etiqueta-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}

// AddTrackingEvent godoc
// @Summary      Registrar evento de seguimiento (IN_TRANSIT, DELIVERED, ...)
// @Tags         shipping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del envío"
// @Param        body  body  dto.TrackingEventRequest  true  "status y descripción"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/tracking [post]
func (h *ShipmentHandler) AddTrackingEvent(c *fiber.Ctx) error {
	var in dto.TrackingEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Status == "" {
		return validation(c, "status es requerido")
	}
	out, err := h.uc.AddTrackingEvent(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener envío por ID
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "envío no encontrado")
	}
	return c.JSON(out)
}

// GetByOrder godoc
// @Summary      Obtener el envío de un pedido
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/shipment [get]
func (h *ShipmentHandler) GetByOrder(c *fiber.Ctx) error {
	out, err := h.uc.GetByOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "el pedido no tiene envío")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar envíos
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ShipmentListResponse
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageFrom(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
