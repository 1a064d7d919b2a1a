package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un envío.
const (
	ShipmentStatusPending   = "PENDING"    // creado, sin transportadora
	ShipmentStatusReady     = "READY"      // transportadora seleccionada
	ShipmentStatusInTransit = "IN_TRANSIT" // despachado
	ShipmentStatusDelivered = "DELIVERED"
)

// TrackingEvent es una actualización de seguimiento reportada para el envío.
type TrackingEvent struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Shipment representa el despacho físico de un pedido empacado. Peso y
// dimensiones se derivan de las líneas del pedido y alimentan la selección
// de transportadora; Cost es la tarifa de la transportadora elegida.
type Shipment struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"` // ej. SHP-9C41B7D2
	OrderID        string          `json:"order_id"`
	Status         string          `json:"status"`
	Destination    Destination     `json:"destination"`
	WeightKg       decimal.Decimal `json:"weight_kg"`
	LongestSideCm  decimal.Decimal `json:"longest_side_cm"`
	CarrierID      string          `json:"carrier_id"`
	CarrierName    string          `json:"carrier_name"`
	Cost           decimal.Decimal `json:"cost"`
	TrackingNumber string          `json:"tracking_number"`
	Events         []TrackingEvent `json:"events"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeliveredAt    *time.Time      `json:"delivered_at"`
}
