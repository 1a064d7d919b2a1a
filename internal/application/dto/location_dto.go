package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Code     string          `json:"code" validate:"required,min=1,max=50"`
	Type     string          `json:"type" validate:"required,oneof=PICK BULK RECEIVING STAGING"`
	Zone     string          `json:"zone"`
	Capacity decimal.Decimal `json:"capacity"`
}

// UpdateLocationRequest entrada para actualizar una ubicación.
type UpdateLocationRequest struct {
	Zone     *string          `json:"zone"`
	Capacity *decimal.Decimal `json:"capacity"`
	Active   *bool            `json:"active"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Type      string          `json:"type"`
	Zone      string          `json:"zone"`
	Capacity  decimal.Decimal `json:"capacity"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AvailableLocationResponse ubicación almacenable con su capacidad restante.
// Occupied suma el stock en piso más los put-away pendientes hacia la ubicación.
type AvailableLocationResponse struct {
	Location  LocationResponse `json:"location"`
	Occupied  decimal.Decimal  `json:"occupied"`
	Available decimal.Decimal  `json:"available"`
	Unlimited bool             `json:"unlimited"`
}

// AvailableLocationListResponse salida de la consulta de ubicaciones con espacio.
type AvailableLocationListResponse struct {
	Items []AvailableLocationResponse `json:"items"`
}
