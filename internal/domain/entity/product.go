package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un SKU del catálogo del almacén.
// UnitCost alimenta la valoración de inventario; peso y dimensiones
// alimentan la selección de transportadora. Los tags json definen el
// esquema del documento persistido.
type Product struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"` // código único
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitMeasure string          `json:"unit_measure"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	WeightKg    decimal.Decimal `json:"weight_kg"` // peso unitario
	LengthCm    decimal.Decimal `json:"length_cm"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	HeightCm    decimal.Decimal `json:"height_cm"`
	Perishable  bool            `json:"perishable"` // exige lote con vencimiento al recibir
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
