package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una autorización de devolución (RMA).
const (
	ReturnStatusAuthorized = "AUTHORIZED"
	ReturnStatusReceived   = "RECEIVED"
	ReturnStatusCancelled  = "CANCELLED"
)

// Disposición de la mercancía devuelta.
const (
	DispositionRestock = "RESTOCK" // reingresa al inventario
	DispositionScrap   = "SCRAP"   // se descarta, sin reingreso
)

// ReturnLine es una línea autorizada a devolver. ReceivedQty acumula lo que
// llegó físicamente.
type ReturnLine struct {
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Reason      string          `json:"reason"`
	Disposition string          `json:"disposition"`
}

// ReturnAuthorization (RMA) autoriza la devolución de líneas de un pedido
// despachado.
type ReturnAuthorization struct {
	ID         string       `json:"id"`
	Number     string       `json:"number"` // ej. RMA-5D12E8A0
	OrderID    string       `json:"order_id"`
	Status     string       `json:"status"`
	Lines      []ReturnLine `json:"lines"`
	CreatedAt  time.Time    `json:"created_at"`
	ReceivedAt *time.Time   `json:"received_at"`
}

// LineFor devuelve el índice de la línea del SKU, -1 si no existe.
func (ra ReturnAuthorization) LineFor(sku string) int {
	for i, l := range ra.Lines {
		if l.SKU == sku {
			return i
		}
	}
	return -1
}
