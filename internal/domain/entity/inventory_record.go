package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es la posición de inventario de un (SKU, ubicación, lote).
// OnHand es existencia física; Allocated es la porción reservada para
// pedidos. Invariantes: 0 <= Allocated <= OnHand.
//
// Código de ubicación y datos del lote van desnormalizados en el documento
// para que la reserva FEFO ordene sin lecturas adicionales.
type InventoryRecord struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	LocationID   string          `json:"location_id"`
	LocationCode string          `json:"location_code"`
	LotID        string          `json:"lot_id"`
	LotCode      string          `json:"lot_code"`
	ExpiryDate   *time.Time      `json:"expiry_date"` // nil = lote sin vencimiento
	ReceivedAt   time.Time       `json:"received_at"` // fecha de recepción del lote
	OnHand       decimal.Decimal `json:"on_hand"`
	Allocated    decimal.Decimal `json:"allocated"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Available es la cantidad prometible: OnHand - Allocated.
func (r InventoryRecord) Available() decimal.Decimal {
	return r.OnHand.Sub(r.Allocated)
}

// Consistente verifica las invariantes del registro.
func (r InventoryRecord) Consistente() bool {
	return !r.Allocated.IsNegative() && !r.OnHand.IsNegative() && r.Allocated.LessThanOrEqual(r.OnHand)
}
