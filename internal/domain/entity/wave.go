package entity

import "time"

// Estados de una ola de picking.
const (
	WaveStatusPlanned   = "PLANNED"
	WaveStatusReleased  = "RELEASED" // tareas de picking generadas
	WaveStatusCompleted = "COMPLETED"
	WaveStatusClosed    = "CLOSED"
	WaveStatusCancelled = "CANCELLED"
)

// Wave agrupa pedidos asignados para picking conjunto. LineCount es la suma
// de líneas de los pedidos miembros al momento de planear.
type Wave struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	OrderIDs    []string   `json:"order_ids"`
	LineCount   int        `json:"line_count"`
	CutoffAt    time.Time  `json:"cutoff_at"` // corte usado por el plan que la generó
	CreatedAt   time.Time  `json:"created_at"`
	ReleasedAt  *time.Time `json:"released_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Contains indica si el pedido es miembro de la ola.
func (w Wave) Contains(orderID string) bool {
	for _, id := range w.OrderIDs {
		if id == orderID {
			return true
		}
	}
	return false
}
