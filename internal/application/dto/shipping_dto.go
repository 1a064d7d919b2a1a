package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCarrierRequest entrada para registrar una transportadora.
type CreateCarrierRequest struct {
	Code           string          `json:"code" validate:"required,min=1,max=20"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	ServiceAreas   []string        `json:"service_areas" validate:"required,min=1"`
	MaxWeightKg    decimal.Decimal `json:"max_weight_kg"`
	MaxDimensionCm decimal.Decimal `json:"max_dimension_cm"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	RatePerKg      decimal.Decimal `json:"rate_per_kg"`
	OnTimeRate     decimal.Decimal `json:"on_time_rate" validate:"required"`
	TransitDays    int             `json:"transit_days" validate:"min=0"`
}

// UpdateCarrierRequest entrada para actualizar una transportadora.
type UpdateCarrierRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Active         *bool            `json:"active"`
	ServiceAreas   []string         `json:"service_areas"`
	MaxWeightKg    *decimal.Decimal `json:"max_weight_kg"`
	MaxDimensionCm *decimal.Decimal `json:"max_dimension_cm"`
	BaseRate       *decimal.Decimal `json:"base_rate"`
	RatePerKg      *decimal.Decimal `json:"rate_per_kg"`
	OnTimeRate     *decimal.Decimal `json:"on_time_rate"`
	TransitDays    *int             `json:"transit_days"`
}

// CarrierResponse salida de una transportadora.
type CarrierResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Active         bool            `json:"active"`
	ServiceAreas   []string        `json:"service_areas"`
	MaxWeightKg    decimal.Decimal `json:"max_weight_kg"`
	MaxDimensionCm decimal.Decimal `json:"max_dimension_cm"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	RatePerKg      decimal.Decimal `json:"rate_per_kg"`
	OnTimeRate     decimal.Decimal `json:"on_time_rate"`
	TransitDays    int             `json:"transit_days"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CarrierListResponse lista paginada de transportadoras.
type CarrierListResponse struct {
	Items []CarrierResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateShipmentRequest body para crear el envío de un pedido empacado.
type CreateShipmentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// TrackingEventRequest body para registrar un evento de seguimiento.
type TrackingEventRequest struct {
	Status      string `json:"status" validate:"required"`
	Description string `json:"description"`
}

// TrackingEventResponse evento de seguimiento registrado.
type TrackingEventResponse struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// ShipmentResponse salida de un envío.
type ShipmentResponse struct {
	ID             string                  `json:"id"`
	Number         string                  `json:"number"`
	OrderID        string                  `json:"order_id"`
	Status         string                  `json:"status"`
	Destination    DestinationRequest      `json:"destination"`
	WeightKg       decimal.Decimal         `json:"weight_kg"`
	LongestSideCm  decimal.Decimal         `json:"longest_side_cm"`
	CarrierID      string                  `json:"carrier_id,omitempty"`
	CarrierName    string                  `json:"carrier_name,omitempty"`
	Cost           decimal.Decimal         `json:"cost"`
	TrackingNumber string                  `json:"tracking_number,omitempty"`
	Events         []TrackingEventResponse `json:"events"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	DeliveredAt    *time.Time              `json:"delivered_at,omitempty"`
}

// ShipmentListResponse lista paginada de envíos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
