package dto

import "time"

// PlanWaveRequest criterios de selección para POST /api/waves/plan.
// Solo se consideran pedidos en estado Allocated y sin ola asignada.
type PlanWaveRequest struct {
	Region       string     `json:"region"`        // filtra por destino
	PriorityMin  int        `json:"priority_min"`  // prioridad mínima inclusive
	CutoffBefore *time.Time `json:"cutoff_before"` // solo pedidos con corte anterior
	MaxOrders    int        `json:"max_orders" validate:"omitempty,min=1"`
	MaxLines     int        `json:"max_lines" validate:"omitempty,min=1"`
}

// CreateWaveRequest body para armar una ola manual con pedidos explícitos.
// Todos deben estar asignados y fuera de cualquier ola abierta.
type CreateWaveRequest struct {
	OrderIDs []string   `json:"order_ids" validate:"required,min=1"`
	CutoffAt *time.Time `json:"cutoff_at"`
}

// WaveResponse salida de una ola.
type WaveResponse struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	OrderIDs    []string   `json:"order_ids"`
	LineCount   int        `json:"line_count"`
	CutoffAt    time.Time  `json:"cutoff_at"`
	CreatedAt   time.Time  `json:"created_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// WaveListResponse lista paginada de olas.
type WaveListResponse struct {
	Items []WaveResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ReleaseWaveResponse resultado de liberar una ola: las tareas generadas.
type ReleaseWaveResponse struct {
	Wave  WaveResponse       `json:"wave"`
	Tasks []PickTaskResponse `json:"tasks"`
}
