package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignPickTaskRequest body para asignar una tarea a un operario.
type AssignPickTaskRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CompletePickTaskRequest body para completar una tarea. Version debe
// coincidir con la versión leída; PickedQty menor a lo pedido declara corto.
type CompletePickTaskRequest struct {
	PickedQty decimal.Decimal `json:"picked_qty"`
	Version   int             `json:"version"`
}

// PickResultResponse resultado registrado de una tarea completada.
type PickResultResponse struct {
	PickedQty   decimal.Decimal `json:"picked_qty"`
	ShortQty    decimal.Decimal `json:"short_qty"`
	CompletedBy string          `json:"completed_by"`
	CompletedAt time.Time       `json:"completed_at"`
}

// PickTaskResponse salida de una tarea de picking.
type PickTaskResponse struct {
	ID            string              `json:"id"`
	WaveID        string              `json:"wave_id"`
	SKU           string              `json:"sku"`
	LocationCode  string              `json:"location_code"`
	Quantity      decimal.Decimal     `json:"quantity"`
	AllocationIDs []string            `json:"allocation_ids"`
	Status        string              `json:"status"`
	AssignedTo    string              `json:"assigned_to,omitempty"`
	Result        *PickResultResponse `json:"result,omitempty"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// PickTaskListResponse tareas de una ola o de un estado.
type PickTaskListResponse struct {
	Items []PickTaskResponse `json:"items"`
}
