package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	UnitMeasure string          `json:"unit_measure"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	LengthCm    decimal.Decimal `json:"length_cm"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	HeightCm    decimal.Decimal `json:"height_cm"`
	Perishable  bool            `json:"perishable"`
}

// UpdateProductRequest entrada para actualizar un producto. UnitCost no se
// toca por acá: lo recalcula la recepción con el promedio ponderado.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	UnitMeasure *string          `json:"unit_measure"`
	WeightKg    *decimal.Decimal `json:"weight_kg"`
	LengthCm    *decimal.Decimal `json:"length_cm"`
	WidthCm     *decimal.Decimal `json:"width_cm"`
	HeightCm    *decimal.Decimal `json:"height_cm"`
	Perishable  *bool            `json:"perishable"`
	Active      *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitMeasure string          `json:"unit_measure"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	LengthCm    decimal.Decimal `json:"length_cm"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	HeightCm    decimal.Decimal `json:"height_cm"`
	Perishable  bool            `json:"perishable"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
