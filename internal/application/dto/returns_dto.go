package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnLineRequest línea autorizada a devolver con su disposición.
type ReturnLineRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Reason      string          `json:"reason"`
	Disposition string          `json:"disposition" validate:"required,oneof=RESTOCK SCRAP"`
}

// CreateReturnRequest body para autorizar una devolución (RMA) de un pedido
// despachado.
type CreateReturnRequest struct {
	OrderID string              `json:"order_id" validate:"required"`
	Lines   []ReturnLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveReturnLineRequest confirma la llegada física de una línea devuelta.
// LocationCode solo aplica cuando la disposición es RESTOCK.
type ReceiveReturnLineRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	LocationCode string          `json:"location_code"`
	LotCode      string          `json:"lot_code"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// ReturnLineResponse línea de la devolución con su avance.
type ReturnLineResponse struct {
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Reason      string          `json:"reason"`
	Disposition string          `json:"disposition"`
}

// ReturnResponse salida de una autorización de devolución.
type ReturnResponse struct {
	ID         string               `json:"id"`
	Number     string               `json:"number"`
	OrderID    string               `json:"order_id"`
	Status     string               `json:"status"`
	Lines      []ReturnLineResponse `json:"lines"`
	CreatedAt  time.Time            `json:"created_at"`
	ReceivedAt *time.Time           `json:"received_at,omitempty"`
}

// ReturnListResponse lista paginada de devoluciones.
type ReturnListResponse struct {
	Items []ReturnResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
