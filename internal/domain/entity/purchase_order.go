package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusOpen              = "OPEN"
	POStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	POStatusReceived          = "RECEIVED"
	POStatusCancelled         = "CANCELLED"
)

// PurchaseOrderLine es una línea esperada de entrada. ReceivedQty acumula lo
// confirmado en recepciones.
type PurchaseOrderLine struct {
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrder representa una orden de compra a proveedor, base de las
// recepciones entrantes.
type PurchaseOrder struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"` // ej. PO-4F2A91C3
	Supplier   string              `json:"supplier"`
	Status     string              `json:"status"`
	Lines      []PurchaseOrderLine `json:"lines"`
	ExpectedAt time.Time           `json:"expected_at"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// LineFor devuelve el índice de la línea del SKU, -1 si no existe.
func (po PurchaseOrder) LineFor(sku string) int {
	for i, l := range po.Lines {
		if l.SKU == sku {
			return i
		}
	}
	return -1
}
