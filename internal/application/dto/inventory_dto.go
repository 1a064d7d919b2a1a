package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity es con signo: positiva suma existencia, negativa la resta.
type AdjustStockRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	LocationCode string          `json:"location_code" validate:"required"`
	LotCode      string          `json:"lot_code"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	Reason       string          `json:"reason" validate:"required,min=1,max=300"`
	Reference    string          `json:"reference"`
}

// PositionResponse una posición (SKU, ubicación, lote) del ledger.
type PositionResponse struct {
	RecordID     string          `json:"record_id"`
	LocationCode string          `json:"location_code"`
	LotCode      string          `json:"lot_code"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Allocated    decimal.Decimal `json:"allocated"`
	Available    decimal.Decimal `json:"available"`
}

// AvailabilityResponse disponibilidad agregada de un SKU con desglose por
// posición. InTransit es lo recibido aún sin put-away: no es prometible.
type AvailabilityResponse struct {
	SKU       string             `json:"sku"`
	OnHand    decimal.Decimal    `json:"on_hand"`
	Allocated decimal.Decimal    `json:"allocated"`
	Available decimal.Decimal    `json:"available"`
	InTransit decimal.Decimal    `json:"in_transit"`
	Positions []PositionResponse `json:"positions"`
}

// AllocateStockRequest body para una reserva FEFO directa contra un SKU,
// por fuera del flujo de pedidos.
type AllocateStockRequest struct {
	OrderID          string          `json:"order_id"`
	SKU              string          `json:"sku" validate:"required"`
	Quantity         decimal.Decimal `json:"quantity" validate:"required"`
	ExcludeLocations []string        `json:"exclude_locations"`
	AllowPartial     bool            `json:"allow_partial"`
}

// AllocateStockResponse resultado de una reserva directa.
type AllocateStockResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	Reserved    decimal.Decimal      `json:"reserved"`
	Remainder   decimal.Decimal      `json:"remainder"`
}

// MovementResponse entrada del historial de movimientos de un SKU.
type MovementResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	LotCode      string          `json:"lot_code"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	Reference    string          `json:"reference"`
	Actor        string          `json:"actor"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateLotRequest entrada para registrar un lote manualmente.
type CreateLotRequest struct {
	SKU        string     `json:"sku" validate:"required"`
	Code       string     `json:"code" validate:"required,min=1,max=100"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID         string     `json:"id"`
	SKU        string     `json:"sku"`
	Code       string     `json:"code"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
}

// ExpiringLotResponse lote próximo a vencer con los días restantes.
type ExpiringLotResponse struct {
	Lot      LotResponse `json:"lot"`
	DaysLeft int         `json:"days_left"`
}

// ExpiringLotListResponse lotes que vencen dentro de la ventana pedida.
type ExpiringLotListResponse struct {
	Days  int                   `json:"days"`
	Items []ExpiringLotResponse `json:"items"`
}
