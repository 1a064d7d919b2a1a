package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero y la valoración,
// resueltas en SQL sobre las columnas JSONB de los contenedores.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetInventoryValuation agrega las posiciones por SKU y las valora con el
// costo unitario del producto (on_hand × unit_cost), de mayor a menor valor.
func (r *AnalyticsRepo) GetInventoryValuation(ctx context.Context) ([]repository.ValuationRow, error) {
	const query = `
	SELECT
	    rec.doc->>'sku'                                       AS sku,
	    COALESCE(p.doc->>'name', '')                          AS product_name,
	    SUM((rec.doc->>'on_hand')::NUMERIC)                   AS on_hand,
	    SUM((rec.doc->>'allocated')::NUMERIC)                 AS allocated,
	    COALESCE((p.doc->>'unit_cost')::NUMERIC, 0)           AS unit_cost,
	    SUM((rec.doc->>'on_hand')::NUMERIC)
	        * COALESCE((p.doc->>'unit_cost')::NUMERIC, 0)     AS total_value
	FROM inventory_records rec
	LEFT JOIN products p ON p.doc->>'sku' = rec.doc->>'sku'
	GROUP BY rec.doc->>'sku', p.doc->>'name', p.doc->>'unit_cost'
	ORDER BY total_value DESC, sku ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetInventoryValuation: %w", err)
	}
	defer rows.Close()

	var results []repository.ValuationRow
	for rows.Next() {
		var row repository.ValuationRow
		if err := rows.Scan(
			&row.SKU,
			&row.ProductName,
			&row.OnHand,
			&row.Allocated,
			&row.UnitCost,
			&row.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetInventoryValuation scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetOperationCounts arma los conteos operativos del tablero. Los pedidos se
// agrupan por estado en SQL; la apertura se decide con la tabla de estados.
func (r *AnalyticsRepo) GetOperationCounts(ctx context.Context) (repository.OperationCounts, error) {
	counts := repository.OperationCounts{OrdersByStatus: make(map[string]int)}

	const ordersQuery = `
	SELECT doc->>'status' AS status, COUNT(*) AS total
	FROM orders
	GROUP BY doc->>'status'`

	rows, err := r.pool.Query(ctx, ordersQuery)
	if err != nil {
		return counts, fmt.Errorf("analytics.GetOperationCounts pedidos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var total int
		if err := rows.Scan(&status, &total); err != nil {
			return counts, fmt.Errorf("analytics.GetOperationCounts scan pedidos: %w", err)
		}
		counts.OrdersByStatus[status] = total
		if !entity.OrderStatusTerminal(status) {
			counts.OpenOrders += total
		}
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("analytics.GetOperationCounts pedidos: %w", err)
	}

	const activityQuery = `
	SELECT
	    (SELECT COUNT(*) FROM waves
	     WHERE doc->>'status' IN ($1, $2))                    AS active_waves,
	    (SELECT COUNT(*) FROM pick_tasks
	     WHERE doc->>'status' IN ($3, $4, $5))                AS pending_picks,
	    (SELECT COUNT(*) FROM putaway_tasks
	     WHERE doc->>'status' = $6)                           AS pending_putaway,
	    (SELECT COUNT(*) FROM receipts
	     WHERE doc->>'status' = $7)                           AS open_receipts`

	err = r.pool.QueryRow(ctx, activityQuery,
		entity.WaveStatusPlanned, entity.WaveStatusReleased,
		entity.PickTaskStatusPending, entity.PickTaskStatusAssigned, entity.PickTaskStatusInProgress,
		entity.PutAwayStatusPending,
		entity.ReceiptStatusOpen,
	).Scan(&counts.ActiveWaves, &counts.PendingPickTasks, &counts.PendingPutAway, &counts.OpenReceipts)
	if err != nil {
		return counts, fmt.Errorf("analytics.GetOperationCounts actividad: %w", err)
	}
	return counts, nil
}
