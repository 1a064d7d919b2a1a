package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de inventario.
const (
	MovementTypeIN         = "IN"         // entrada física (put-away, devolución)
	MovementTypeOUT        = "OUT"        // salida física (commit de picking)
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual con motivo
	MovementTypeRESERVE    = "RESERVE"    // reserva (no mueve existencia)
	MovementTypeRELEASE    = "RELEASE"    // liberación de reserva
)

// StockMovement es la entrada de auditoría que acompaña cada mutación del
// ledger. Quantity es positiva para IN/RESERVE/RELEASE y negativa para OUT
// y ajustes a la baja.
type StockMovement struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	LotCode      string          `json:"lot_code"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	Reference    string          `json:"reference"` // pedido, recepción o RMA que originó el movimiento
	Actor        string          `json:"actor"`     // usuario que lo ejecutó
	CreatedAt    time.Time       `json:"created_at"`
}
