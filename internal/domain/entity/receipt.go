package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una recepción.
const (
	ReceiptStatusOpen      = "OPEN"
	ReceiptStatusCompleted = "COMPLETED"
)

// ReceiptLine es una línea de recepción confirmada contra lo esperado.
type ReceiptLine struct {
	SKU         string          `json:"sku"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	LotID       string          `json:"lot_id"`
	LotCode     string          `json:"lot_code"`
}

// Receipt representa una sesión de recepción de mercancía, abierta contra
// una orden de compra (y opcionalmente un ASN) en un muelle de recepción.
type Receipt struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	POID        string        `json:"po_id"`
	ASNID       string        `json:"asn_id"`      // vacío si la recepción es a ciegas
	LocationID  string        `json:"location_id"` // muelle de recepción
	Status      string        `json:"status"`
	Lines       []ReceiptLine `json:"lines"`
	ReceivedBy  string        `json:"received_by"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at"`
}

// LineFor devuelve el índice de la línea del SKU, -1 si no existe.
func (r Receipt) LineFor(sku string) int {
	for i, l := range r.Lines {
		if l.SKU == sku {
			return i
		}
	}
	return -1
}
