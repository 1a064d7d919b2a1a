package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Carrier representa una transportadora contratada. BaseRate + RatePerKg
// determinan el costo de un envío; OnTimeRate (0..1) es su confiabilidad
// histórica y TransitDays su promesa de tránsito.
type Carrier struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"` // único, ej. COORD
	Name           string          `json:"name"`
	Active         bool            `json:"active"`
	ServiceAreas   []string        `json:"service_areas"` // códigos de región cubiertos
	MaxWeightKg    decimal.Decimal `json:"max_weight_kg"`
	MaxDimensionCm decimal.Decimal `json:"max_dimension_cm"` // lado máximo aceptado por bulto
	BaseRate       decimal.Decimal `json:"base_rate"`
	RatePerKg      decimal.Decimal `json:"rate_per_kg"`
	OnTimeRate     decimal.Decimal `json:"on_time_rate"`
	TransitDays    int             `json:"transit_days"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Serves indica si la transportadora cubre la región destino.
func (c Carrier) Serves(region string) bool {
	for _, area := range c.ServiceAreas {
		if area == region {
			return true
		}
	}
	return false
}

// CostFor calcula el costo de despachar el peso dado.
func (c Carrier) CostFor(weightKg decimal.Decimal) decimal.Decimal {
	return c.BaseRate.Add(c.RatePerKg.Mul(weightKg))
}
