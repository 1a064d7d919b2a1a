package entity

import "time"

// Lot representa un lote de recepción de un SKU. ExpiryDate nil significa
// lote sin vencimiento: para efectos FEFO se ordena después de todos los
// lotes fechados.
type Lot struct {
	ID         string     `json:"id"`
	SKU        string     `json:"sku"`
	Code       string     `json:"code"` // código de lote del proveedor
	ExpiryDate *time.Time `json:"expiry_date"`
	ReceivedAt time.Time  `json:"received_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Expirado indica si el lote ya venció respecto al instante dado.
func (l Lot) Expirado(now time.Time) bool {
	return l.ExpiryDate != nil && !l.ExpiryDate.After(now)
}
