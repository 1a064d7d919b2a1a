package docstore

import (
	"context"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo resuelve las consultas del tablero agregando en memoria
// sobre los repositorios tipados. Sirve para el driver memory; el driver
// postgres trae su propia implementación en SQL.
type AnalyticsRepo struct {
	records  repository.InventoryRecordRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	waves    repository.WaveRepository
	tasks    repository.PickTaskRepository
	putaways repository.PutAwayTaskRepository
	receipts repository.ReceiptRepository
}

// NewAnalyticsRepository construye el agregador de lecturas del tablero.
func NewAnalyticsRepository(
	records repository.InventoryRecordRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	waves repository.WaveRepository,
	tasks repository.PickTaskRepository,
	putaways repository.PutAwayTaskRepository,
	receipts repository.ReceiptRepository,
) *AnalyticsRepo {
	return &AnalyticsRepo{
		records:  records,
		products: products,
		orders:   orders,
		waves:    waves,
		tasks:    tasks,
		putaways: putaways,
		receipts: receipts,
	}
}

// GetInventoryValuation agrega las posiciones por SKU y las valora con el
// costo unitario del producto, ordenadas por valor descendente.
func (r *AnalyticsRepo) GetInventoryValuation(ctx context.Context) ([]repository.ValuationRow, error) {
	recs, err := r.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	bySKU := make(map[string]*repository.ValuationRow)
	for _, rec := range recs {
		row, ok := bySKU[rec.SKU]
		if !ok {
			row = &repository.ValuationRow{SKU: rec.SKU}
			bySKU[rec.SKU] = row
		}
		row.OnHand = row.OnHand.Add(rec.OnHand)
		row.Allocated = row.Allocated.Add(rec.Allocated)
	}

	out := make([]repository.ValuationRow, 0, len(bySKU))
	for _, row := range bySKU {
		p, err := r.products.GetBySKU(ctx, row.SKU)
		if err != nil {
			return nil, err
		}
		if p != nil {
			row.ProductName = p.Name
			row.UnitCost = p.UnitCost
		}
		row.TotalValue = row.OnHand.Mul(row.UnitCost)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

// GetOperationCounts recorre pedidos, olas y tareas para armar los conteos
// operativos del tablero.
func (r *AnalyticsRepo) GetOperationCounts(ctx context.Context) (repository.OperationCounts, error) {
	counts := repository.OperationCounts{OrdersByStatus: make(map[string]int)}

	orders, err := r.orders.List(ctx, 0, 0)
	if err != nil {
		return counts, err
	}
	for _, o := range orders {
		counts.OrdersByStatus[o.Status]++
		if !entity.OrderStatusTerminal(o.Status) {
			counts.OpenOrders++
		}
	}

	waves, err := r.waves.List(ctx, 0, 0)
	if err != nil {
		return counts, err
	}
	for _, w := range waves {
		if w.Status == entity.WaveStatusPlanned || w.Status == entity.WaveStatusReleased {
			counts.ActiveWaves++
		}
	}

	pending, err := r.tasks.ListByStatus(ctx,
		entity.PickTaskStatusPending, entity.PickTaskStatusAssigned, entity.PickTaskStatusInProgress)
	if err != nil {
		return counts, err
	}
	counts.PendingPickTasks = len(pending)

	putaways, err := r.putaways.ListByStatus(ctx, entity.PutAwayStatusPending)
	if err != nil {
		return counts, err
	}
	counts.PendingPutAway = len(putaways)

	receipts, err := r.receipts.List(ctx, 0, 0)
	if err != nil {
		return counts, err
	}
	for _, rc := range receipts {
		if rc.Status == entity.ReceiptStatusOpen {
			counts.OpenReceipts++
		}
	}
	return counts, nil
}
