// Package analytics contiene los casos de uso del dashboard operativo del
// almacén: conteos de trabajo en curso y valoración del inventario.
package analytics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain/repository"
)

// ValuationExporter genera el reporte de valoración en formato de hoja de
// cálculo. La implementación vive en infraestructura.
type ValuationExporter interface {
	ValuationWorkbook(rows []repository.ValuationRow) ([]byte, error)
}

// DashboardUseCase genera el resumen operativo y la valoración del inventario.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// No navega los agregados del dominio; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	exporter      ValuationExporter
	log           zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	exporter ValuationExporter,
	log zerolog.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		exporter:      exporter,
		log:           log.With().Str("usecase", "dashboard").Logger(),
	}
}

// GetSummary construye el DashboardSummaryResponse.
//
// Dos llamadas en paralelo:
//  1. GetOperationCounts      → pedidos, olas, tareas y recepciones abiertas
//  2. GetInventoryValuation   → SKUs distintos + valor total a costo promedio
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	type countsResult struct {
		counts repository.OperationCounts
		err    error
	}
	type valuationResult struct {
		rows []repository.ValuationRow
		err  error
	}

	countsCh := make(chan countsResult, 1)
	rowsCh := make(chan valuationResult, 1)

	go func() {
		counts, err := uc.analyticsRepo.GetOperationCounts(ctx)
		countsCh <- countsResult{counts, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetInventoryValuation(ctx)
		rowsCh <- valuationResult{rows, err}
	}()

	counts := <-countsCh
	rows := <-rowsCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos operativos: %w", counts.err)
	}
	if rows.err != nil {
		return nil, fmt.Errorf("dashboard: valoración de inventario: %w", rows.err)
	}

	total := decimal.Zero
	for _, row := range rows.rows {
		total = total.Add(row.TotalValue)
	}

	return &dto.DashboardSummaryResponse{
		OpenOrders:          counts.counts.OpenOrders,
		OrdersByStatus:      counts.counts.OrdersByStatus,
		ActiveWaves:         counts.counts.ActiveWaves,
		PendingPickTasks:    counts.counts.PendingPickTasks,
		PendingPutAway:      counts.counts.PendingPutAway,
		OpenReceipts:        counts.counts.OpenReceipts,
		DistinctSKUs:        len(rows.rows),
		TotalInventoryValue: total.Round(2),
	}, nil
}

// GetValuation devuelve la valoración del inventario por SKU, ordenada por
// valor total descendente.
func (uc *DashboardUseCase) GetValuation(ctx context.Context) (*dto.ValuationResponse, error) {
	rows, err := uc.analyticsRepo.GetInventoryValuation(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: valoración de inventario: %w", err)
	}

	out := &dto.ValuationResponse{
		Items:      make([]dto.ValuationRowResponse, 0, len(rows)),
		TotalValue: decimal.Zero,
	}
	for _, row := range rows {
		out.Items = append(out.Items, dto.ValuationRowResponse{
			SKU:         row.SKU,
			ProductName: row.ProductName,
			OnHand:      row.OnHand,
			Allocated:   row.Allocated,
			UnitCost:    row.UnitCost,
			TotalValue:  row.TotalValue,
		})
		out.TotalValue = out.TotalValue.Add(row.TotalValue)
	}
	out.TotalValue = out.TotalValue.Round(2)
	return out, nil
}

// ExportValuation genera el reporte de valoración en XLSX.
func (uc *DashboardUseCase) ExportValuation(ctx context.Context) ([]byte, error) {
	rows, err := uc.analyticsRepo.GetInventoryValuation(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: valoración de inventario: %w", err)
	}
	book, err := uc.exporter.ValuationWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("dashboard: exportar valoración: %w", err)
	}
	uc.log.Info().Int("skus", len(rows)).Msg("reporte de valoración exportado")
	return book, nil
}
