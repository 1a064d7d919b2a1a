package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ubicación dentro del almacén.
const (
	LocationTypePick      = "PICK"      // posición de picking (pick-face)
	LocationTypeBulk      = "BULK"      // almacenamiento masivo / reserva
	LocationTypeReceiving = "RECEIVING" // muelle de recepción
	LocationTypeStaging   = "STAGING"   // consolidación de salida
)

// Location representa una ubicación física del almacén identificada por un
// código legible (pasillo-estante-nivel). Capacity está en unidades; el cupo
// disponible se calcula contra el on-hand agregado de la ubicación.
type Location struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"` // único, ej. A-01-02
	Type      string          `json:"type"`
	Zone      string          `json:"zone"`
	Capacity  decimal.Decimal `json:"capacity"` // 0 = sin límite declarado
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EsAlmacenable indica si la ubicación puede recibir put-away.
func (l Location) EsAlmacenable() bool {
	return l.Active && (l.Type == LocationTypePick || l.Type == LocationTypeBulk)
}
