package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest línea esperada de una orden de compra.
type PurchaseOrderLineRequest struct {
	SKU      string          `json:"sku" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	Number     string                     `json:"number" validate:"required,min=1,max=50"`
	Supplier   string                     `json:"supplier" validate:"required"`
	ExpectedAt time.Time                  `json:"expected_at"`
	Lines      []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineResponse línea con su avance de recepción.
type PurchaseOrderLineResponse struct {
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	Number     string                      `json:"number"`
	Supplier   string                      `json:"supplier"`
	Status     string                      `json:"status"`
	Lines      []PurchaseOrderLineResponse `json:"lines"`
	ExpectedAt time.Time                   `json:"expected_at"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ASNLineResponse línea anunciada en un aviso de despacho.
type ASNLineResponse struct {
	SKU        string          `json:"sku"`
	Quantity   decimal.Decimal `json:"quantity"`
	LotCode    string          `json:"lot_code"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// ASNResponse salida de un aviso de despacho procesado.
type ASNResponse struct {
	ID        string            `json:"id"`
	Reference string            `json:"reference"`
	PONumber  string            `json:"po_number"`
	Supplier  string            `json:"supplier"`
	ETA       time.Time         `json:"eta"`
	Lines     []ASNLineResponse `json:"lines"`
	CreatedAt time.Time         `json:"created_at"`
}

// ASNListResponse lista paginada de avisos.
type ASNListResponse struct {
	Items []ASNResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// CreateReceiptRequest body para abrir una recepción contra una orden de
// compra; ASNID llena las líneas esperadas desde el aviso.
type CreateReceiptRequest struct {
	POID         string `json:"po_id" validate:"required"`
	ASNID        string `json:"asn_id"`
	LocationCode string `json:"location_code" validate:"required"` // muelle RECEIVING
}

// ReceiveLineRequest confirma cantidad recibida de un SKU dentro de la
// recepción; el lote se crea si no existe.
type ReceiveLineRequest struct {
	SKU        string          `json:"sku" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	LotCode    string          `json:"lot_code"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// ReceiveItemResponse resultado de confirmar una línea: la recepción
// actualizada y la tarea de put-away generada.
type ReceiveItemResponse struct {
	Receipt ReceiptResponse     `json:"receipt"`
	PutAway PutAwayTaskResponse `json:"putaway_task"`
}

// ReceiptLineResponse línea de recepción con lo esperado y lo confirmado.
type ReceiptLineResponse struct {
	SKU         string          `json:"sku"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	LotCode     string          `json:"lot_code"`
}

// ReceiptResponse salida de una recepción.
type ReceiptResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	POID        string                `json:"po_id"`
	ASNID       string                `json:"asn_id,omitempty"`
	LocationID  string                `json:"location_id"`
	Status      string                `json:"status"`
	Lines       []ReceiptLineResponse `json:"lines"`
	ReceivedBy  string                `json:"received_by"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// ReceiptListResponse lista paginada de recepciones.
type ReceiptListResponse struct {
	Items []ReceiptResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PutAwayTaskResponse salida de una tarea de put-away.
type PutAwayTaskResponse struct {
	ID             string          `json:"id"`
	ReceiptID      string          `json:"receipt_id"`
	SKU            string          `json:"sku"`
	LotCode        string          `json:"lot_code"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	ToLocationCode string          `json:"to_location_code"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CompletedBy    string          `json:"completed_by,omitempty"`
}

// PutAwayTaskListResponse tareas de put-away de una recepción o estado.
type PutAwayTaskListResponse struct {
	Items []PutAwayTaskResponse `json:"items"`
}
