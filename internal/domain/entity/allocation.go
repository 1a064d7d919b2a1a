package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation es una reserva viva de inventario contra un registro concreto
// (SKU, ubicación, lote). Quantity es lo pendiente: el commit la consume y
// el release la devuelve; al llegar a cero la reserva se elimina.
type Allocation struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	SKU          string          `json:"sku"`
	RecordID     string          `json:"record_id"`
	LocationID   string          `json:"location_id"`
	LocationCode string          `json:"location_code"`
	LotID        string          `json:"lot_id"`
	LotCode      string          `json:"lot_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
}
