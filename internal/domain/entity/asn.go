package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ASNLine es una línea anunciada por el proveedor. Lote y vencimiento llegan
// en el aviso y se materializan al recibir.
type ASNLine struct {
	SKU        string          `json:"sku"`
	Quantity   decimal.Decimal `json:"quantity"`
	LotCode    string          `json:"lot_code"`
	ExpiryDate *time.Time      `json:"expiry_date"`
}

// AdvanceShipNotice es el aviso anticipado de despacho (ASN) que el
// proveedor envía en XML antes de la llegada física.
type AdvanceShipNotice struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"` // número de aviso del proveedor
	PONumber  string    `json:"po_number"`
	Supplier  string    `json:"supplier"`
	ETA       time.Time `json:"eta"`
	Lines     []ASNLine `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}
