package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una tarea de put-away.
const (
	PutAwayStatusPending   = "PENDING"
	PutAwayStatusCompleted = "COMPLETED"
	PutAwayStatusCancelled = "CANCELLED"
)

// PutAwayTask es el traslado pendiente de mercancía recibida desde el muelle
// hacia su ubicación de destino. Mientras está pendiente la cantidad cuenta
// como tránsito interno, no como existencia disponible.
type PutAwayTask struct {
	ID             string          `json:"id"`
	ReceiptID      string          `json:"receipt_id"`
	SKU            string          `json:"sku"`
	LotID          string          `json:"lot_id"`
	LotCode        string          `json:"lot_code"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
	Quantity       decimal.Decimal `json:"quantity"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	ToLocationCode string          `json:"to_location_code"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at"`
	CompletedBy    string          `json:"completed_by"`
}
