package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una tarea de picking.
const (
	PickTaskStatusPending    = "PENDING"
	PickTaskStatusAssigned   = "ASSIGNED"
	PickTaskStatusInProgress = "IN_PROGRESS"
	PickTaskStatusCompleted  = "COMPLETED"
)

// pickTaskTransitions define el avance permitido de una tarea.
var pickTaskTransitions = map[string][]string{
	PickTaskStatusPending:    {PickTaskStatusAssigned},
	PickTaskStatusAssigned:   {PickTaskStatusInProgress},
	PickTaskStatusInProgress: {PickTaskStatusCompleted},
	PickTaskStatusCompleted:  {},
}

// PickTaskCanTransition indica si el paso from→to está permitido.
func PickTaskCanTransition(from, to string) bool {
	for _, next := range pickTaskTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PickResult es el resultado registrado al completar la tarea. Se conserva
// en el documento para que completar dos veces devuelva lo mismo.
type PickResult struct {
	PickedQty   decimal.Decimal `json:"picked_qty"`
	ShortQty    decimal.Decimal `json:"short_qty"`
	CompletedBy string          `json:"completed_by"`
	CompletedAt time.Time       `json:"completed_at"`
}

// PickTask es una visita de picking consolidada: todas las reservas de un
// (ola, ubicación, SKU) en una sola tarea. Version respalda las escrituras
// condicionales sobre la tarea.
type PickTask struct {
	ID            string          `json:"id"`
	WaveID        string          `json:"wave_id"`
	SKU           string          `json:"sku"`
	LocationID    string          `json:"location_id"`
	LocationCode  string          `json:"location_code"`
	Quantity      decimal.Decimal `json:"quantity"` // suma de las reservas cubiertas
	AllocationIDs []string        `json:"allocation_ids"`
	Status        string          `json:"status"`
	AssignedTo    string          `json:"assigned_to"`
	Result        *PickResult     `json:"result"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
