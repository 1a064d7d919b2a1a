package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido de salida.
const (
	OrderStatusCreated            = "CREATED"
	OrderStatusValidated          = "VALIDATED"
	OrderStatusAllocated          = "ALLOCATED"
	OrderStatusPartiallyAllocated = "PARTIALLY_ALLOCATED"
	OrderStatusWaved              = "WAVED"
	OrderStatusPicking            = "PICKING"
	OrderStatusPacked             = "PACKED"
	OrderStatusShipped            = "SHIPPED"
	OrderStatusClosed             = "CLOSED"
	OrderStatusCancelled          = "CANCELLED"
)

// orderTransitions define las transiciones permitidas del ciclo de vida.
// Cualquier salto fuera de esta tabla es un conflicto de estado.
var orderTransitions = map[string][]string{
	OrderStatusCreated:            {OrderStatusValidated, OrderStatusCancelled},
	OrderStatusValidated:          {OrderStatusAllocated, OrderStatusPartiallyAllocated, OrderStatusCancelled},
	OrderStatusAllocated:          {OrderStatusWaved, OrderStatusCancelled},
	OrderStatusPartiallyAllocated: {OrderStatusAllocated, OrderStatusWaved, OrderStatusCancelled},
	OrderStatusWaved:              {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:            {OrderStatusPacked, OrderStatusCancelled},
	OrderStatusPacked:             {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:            {OrderStatusClosed},
	OrderStatusClosed:             {},
	OrderStatusCancelled:          {},
}

// OrderCanTransition indica si el paso from→to está permitido.
func OrderCanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderStatusTerminal indica si el estado no admite más transiciones.
func OrderStatusTerminal(status string) bool {
	return len(orderTransitions[status]) == 0
}

// OrderLine es una línea de pedido. AllocatedQty acumula lo reservado;
// ShortQty registra faltantes confirmados en picking y Short marca la línea.
type OrderLine struct {
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
	PickedQty    decimal.Decimal `json:"picked_qty"`
	ShortQty     decimal.Decimal `json:"short_qty"`
	Short        bool            `json:"short"`
}

// Destination es la dirección de entrega del pedido. Region es el código de
// zona que cruza con las áreas de servicio de las transportadoras.
type Destination struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order representa un pedido de salida del almacén.
// CutoffAt es la hora límite de despacho comprometida; Priority mayor = más
// urgente. WaveID queda vacío hasta que un plan de olas lo admita.
type Order struct {
	ID              string      `json:"id"`
	Reference       string      `json:"reference"` // referencia externa del cliente
	Status          string      `json:"status"`
	Priority        int         `json:"priority"`
	CutoffAt        time.Time   `json:"cutoff_at"`
	SLADeliveryDays int         `json:"sla_delivery_days"` // 0 = sin compromiso de tránsito
	Destination     Destination `json:"destination"`
	Lines           []OrderLine `json:"lines"`
	WaveID          string      `json:"wave_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TotalLines es el número de líneas del pedido (cupo de olas).
func (o Order) TotalLines() int {
	return len(o.Lines)
}

// TotalQuantity suma las cantidades pedidas.
func (o Order) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}
