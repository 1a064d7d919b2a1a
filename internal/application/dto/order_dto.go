package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de pedido a crear.
type OrderLineRequest struct {
	SKU      string          `json:"sku" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// DestinationRequest dirección de entrega del pedido.
type DestinationRequest struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city"`
	Region     string `json:"region" validate:"required"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Reference       string             `json:"reference" validate:"required,min=1,max=100"`
	Priority        int                `json:"priority" validate:"min=0,max=100"`
	CutoffAt        time.Time          `json:"cutoff_at"`
	SLADeliveryDays int                `json:"sla_delivery_days"`
	Destination     DestinationRequest `json:"destination" validate:"required"`
	Lines           []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineResponse línea de pedido con su avance de reserva y picking.
type OrderLineResponse struct {
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
	PickedQty    decimal.Decimal `json:"picked_qty"`
	ShortQty     decimal.Decimal `json:"short_qty"`
	Short        bool            `json:"short"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	Reference       string              `json:"reference"`
	Status          string              `json:"status"`
	Priority        int                 `json:"priority"`
	CutoffAt        time.Time           `json:"cutoff_at"`
	SLADeliveryDays int                 `json:"sla_delivery_days"`
	Destination     DestinationRequest  `json:"destination"`
	Lines           []OrderLineResponse `json:"lines"`
	WaveID          string              `json:"wave_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AllocationResponse una reserva viva contra una posición del ledger.
type AllocationResponse struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	LotCode      string          `json:"lot_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AllocateOrderResponse resultado de la asignación de un pedido.
type AllocateOrderResponse struct {
	Order       OrderResponse        `json:"order"`
	Allocations []AllocationResponse `json:"allocations"`
}

// CancelOrderRequest body opcional con el motivo de cancelación.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
