package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValuationRow resultado crudo de la consulta de valoración de inventario.
// Lo produce la implementación; el use case lo convierte en DTO.
type ValuationRow struct {
	SKU         string
	ProductName string
	OnHand      decimal.Decimal
	Allocated   decimal.Decimal
	UnitCost    decimal.Decimal
	TotalValue  decimal.Decimal // OnHand * UnitCost
}

// OperationCounts conteos operativos del tablero.
type OperationCounts struct {
	OpenOrders       int // pedidos no terminales
	OrdersByStatus   map[string]int
	ActiveWaves      int // olas en PLANNED o RELEASED
	PendingPickTasks int // tareas PENDING/ASSIGNED/IN_PROGRESS
	PendingPutAway   int
	OpenReceipts     int
}

// AnalyticsRepository define las consultas de lectura para el tablero y los
// reportes de valoración. Las implementaciones son read-only.
type AnalyticsRepository interface {
	// GetInventoryValuation devuelve una fila por SKU con existencia y
	// valor (on_hand * costo unitario), ordenadas por valor descendente.
	GetInventoryValuation(ctx context.Context) ([]ValuationRow, error)

	// GetOperationCounts devuelve los conteos operativos del tablero.
	GetOperationCounts(ctx context.Context) (OperationCounts, error)
}
