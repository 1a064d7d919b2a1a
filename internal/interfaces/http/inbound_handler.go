package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/inbound"
)

// InboundHandler flujo de entrada: órdenes de compra, avisos de despacho
// (ASN), recepción y put-away.
type InboundHandler struct {
	uc *inbound.UseCase
}

// NewInboundHandler construye el handler.
func NewInboundHandler(uc *inbound.UseCase) *InboundHandler {
	return &InboundHandler{uc: uc}
}

// ── Órdenes de compra ──

// CreatePurchaseOrder godoc
// @Summary      Crear orden de compra
// @Tags         inbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "number, supplier, lines"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *InboundHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Number == "" || in.Supplier == "" || len(in.Lines) == 0 {
		return validation(c, "number, supplier y al menos una línea son requeridos")
	}
	out, err := h.uc.CreatePurchaseOrder(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPurchaseOrder godoc
// @Summary      Obtener orden de compra por ID
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden de compra"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *InboundHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	out, err := h.uc.GetPurchaseOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "orden de compra no encontrada")
	}
	return c.JSON(out)
}

// ListPurchaseOrders godoc
// @Summary      Listar órdenes de compra
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *InboundHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	out, err := h.uc.ListPurchaseOrders(c.Context(), pageFrom(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ── Avisos de despacho ──

// ProcessASN godoc
// @Summary      Procesar aviso de despacho XML del proveedor
// @Description  Recibe el XML crudo en el cuerpo (UTF-8 o ISO-8859-1) y lo registra contra su orden de compra.
// @Tags         inbound
// @Security     Bearer
// @Accept       xml
// @Produce      json
// @Param        body  body  string  true  "Documento AvisoDespacho"
// @Success      201   {object}  dto.ASNResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/asns [post]
func (h *InboundHandler) ProcessASN(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return validation(c, "el cuerpo debe contener el XML del aviso")
	}
	out, err := h.uc.ProcessASN(c.Context(), body)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetASN godoc
// @Summary      Obtener aviso de despacho por ID
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del aviso"
// @Success      200  {object}  dto.ASNResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/asns/{id} [get]
func (h *InboundHandler) GetASN(c *fiber.Ctx) error {
	out, err := h.uc.GetASN(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "aviso no encontrado")
	}
	return c.JSON(out)
}

// ListASNs godoc
// @Summary      Listar avisos de despacho
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ASNListResponse
// @Router       /api/asns [get]
func (h *InboundHandler) ListASNs(c *fiber.Ctx) error {
	out, err := h.uc.ListASNs(c.Context(), pageFrom(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ── Recepción ──

// StartReceiving godoc
// @Summary      Abrir recepción contra una orden de compra
// @Tags         inbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "po_id, asn_id opcional, location_code del muelle"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *InboundHandler) StartReceiving(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.POID == "" || in.LocationCode == "" {
		return validation(c, "po_id y location_code son requeridos")
	}
	out, err := h.uc.StartReceiving(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReceiveItem godoc
// @Summary      Confirmar línea recibida y generar su put-away
// @Tags         inbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.ReceiveLineRequest  true  "sku, quantity, lot_code y expiry_date según el producto"
// @Success      200   {object}  dto.ReceiveItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/items [post]
func (h *InboundHandler) ReceiveItem(c *fiber.Ctx) error {
	var in dto.ReceiveLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.SKU == "" {
		return validation(c, "sku es requerido")
	}
	out, err := h.uc.ProcessReceivedItem(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// GetReceipt godoc
// @Summary      Obtener recepción por ID
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *InboundHandler) GetReceipt(c *fiber.Ctx) error {
	out, err := h.uc.GetReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "recepción no encontrada")
	}
	return c.JSON(out)
}

// ListReceipts godoc
// @Summary      Listar recepciones
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ReceiptListResponse
// @Router       /api/receipts [get]
func (h *InboundHandler) ListReceipts(c *fiber.Ctx) error {
	out, err := h.uc.ListReceipts(c.Context(), pageFrom(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ── Put-away ──

// CompletePutAway godoc
// @Summary      Confirmar put-away: mueve el stock del muelle a su destino
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea de put-away"
// @Success      200  {object}  dto.PutAwayTaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/putaway-tasks/{id}/complete [post]
func (h *InboundHandler) CompletePutAway(c *fiber.Ctx) error {
	out, err := h.uc.CompletePutAway(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// GetPutAwayTask godoc
// @Summary      Obtener tarea de put-away por ID
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PutAwayTaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/putaway-tasks/{id} [get]
func (h *InboundHandler) GetPutAwayTask(c *fiber.Ctx) error {
	out, err := h.uc.GetPutAwayTask(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if out == nil {
		return notFound(c, "tarea de put-away no encontrada")
	}
	return c.JSON(out)
}

// ListPutAwayTasks godoc
// @Summary      Listar tareas de put-away por recepción o estado
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        receipt_id  query  string  false  "ID de la recepción"
// @Param        status      query  string  false  "Estados separados por coma (PENDING,COMPLETED,...)"
// @Success      200         {object}  dto.PutAwayTaskListResponse
// @Router       /api/putaway-tasks [get]
func (h *InboundHandler) ListPutAwayTasks(c *fiber.Ctx) error {
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, strings.ToUpper(s))
			}
		}
	}
	out, err := h.uc.ListPutAwayTasks(c.Context(), c.Query("receipt_id"), statuses...)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
