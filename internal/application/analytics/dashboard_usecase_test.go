package analytics_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/analytics"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
)

func TestSummaryCuentaElTrabajoAbierto(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	f.seedOrder(entity.OrderStatusCreated)
	f.seedOrder(entity.OrderStatusPicking)
	f.seedOrder(entity.OrderStatusClosed)
	f.seedWave(entity.WaveStatusPlanned)
	f.seedWave(entity.WaveStatusReleased)
	f.seedWave(entity.WaveStatusClosed)
	f.seedPickTask(entity.PickTaskStatusPending)
	f.seedPickTask(entity.PickTaskStatusCompleted)
	f.seedPutAway(entity.PutAwayStatusPending)
	f.seedReceipt(entity.ReceiptStatusOpen)
	f.seedReceipt(entity.ReceiptStatusCompleted)

	out, err := f.uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, out.OpenOrders)
	assert.Equal(t, 1, out.OrdersByStatus[entity.OrderStatusClosed])
	assert.Equal(t, 2, out.ActiveWaves)
	assert.Equal(t, 1, out.PendingPickTasks)
	assert.Equal(t, 1, out.PendingPutAway)
	assert.Equal(t, 1, out.OpenReceipts)
}

func TestSummaryValoraElInventarioACostoPromedio(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	f.seedProduct("SKU-1", "Tornillos", "12.50")
	f.seedProduct("SKU-2", "Tuercas", "3.00")
	f.seedRecord("SKU-1", "A-01-01", "10")  // 125.00
	f.seedRecord("SKU-1", "B-01-01", "4")   //  50.00
	f.seedRecord("SKU-2", "A-01-02", "100") // 300.00

	out, err := f.uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, out.DistinctSKUs)
	assert.True(t, out.TotalInventoryValue.Equal(dec("475")),
		"valor total %s", out.TotalInventoryValue)
}

func TestValuationOrdenaPorValorDescendente(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	f.seedProduct("SKU-1", "Tornillos", "1.00")
	f.seedProduct("SKU-2", "Tuercas", "10.00")
	f.seedRecord("SKU-1", "A-01-01", "5")
	f.seedRecord("SKU-2", "A-01-02", "5")

	out, err := f.uc.GetValuation(ctx)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	assert.Equal(t, "SKU-2", out.Items[0].SKU)
	assert.Equal(t, "SKU-1", out.Items[1].SKU)
	assert.True(t, out.TotalValue.Equal(dec("55")))
	assert.Equal(t, "Tuercas", out.Items[0].ProductName)
}

func TestExportValuationDelegaEnElExportador(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	f.seedProduct("SKU-1", "Tornillos", "2.00")
	f.seedRecord("SKU-1", "A-01-01", "3")

	book, err := f.uc.ExportValuation(ctx)
	require.NoError(t, err)

	assert.Equal(t, []byte("xlsx-simulado"), book)
	require.Len(t, f.exporter.rows, 1)
	assert.Equal(t, "SKU-1", f.exporter.rows[0].SKU)
	assert.True(t, f.exporter.rows[0].TotalValue.Equal(dec("6")))
}

// ── helpers ──────────────────────────────────────────────────────────────────

type fakeExporter struct {
	rows []repository.ValuationRow
}

func (f *fakeExporter) ValuationWorkbook(rows []repository.ValuationRow) ([]byte, error) {
	f.rows = rows
	return []byte("xlsx-simulado"), nil
}

type dashboardFixture struct {
	t        *testing.T
	uc       *analytics.DashboardUseCase
	exporter *fakeExporter

	records  repository.InventoryRecordRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	waves    repository.WaveRepository
	tasks    repository.PickTaskRepository
	putaways repository.PutAwayTaskRepository
	receipts repository.ReceiptRepository
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	ctx := context.Background()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}

	f := &dashboardFixture{
		t:        t,
		exporter: &fakeExporter{},
		records:  docstore.NewInventoryRecordRepository(store),
		products: docstore.NewProductRepository(store),
		orders:   docstore.NewOrderRepository(store),
		waves:    docstore.NewWaveRepository(store),
		tasks:    docstore.NewPickTaskRepository(store),
		putaways: docstore.NewPutAwayTaskRepository(store),
		receipts: docstore.NewReceiptRepository(store),
	}
	repo := docstore.NewAnalyticsRepository(
		f.records, f.products, f.orders, f.waves, f.tasks, f.putaways, f.receipts)
	f.uc = analytics.NewDashboardUseCase(repo, f.exporter, zerolog.Nop())
	return f
}

func (f *dashboardFixture) seedOrder(status string) {
	f.t.Helper()
	err := f.orders.Create(context.Background(), &entity.Order{
		ID: uuid.NewString(), Reference: "ORD-" + uuid.NewString()[:8], Status: status,
	})
	require.NoError(f.t, err)
}

func (f *dashboardFixture) seedWave(status string) {
	f.t.Helper()
	err := f.waves.Create(context.Background(), &entity.Wave{
		ID: uuid.NewString(), Number: "WAVE-" + uuid.NewString()[:8], Status: status,
	})
	require.NoError(f.t, err)
}

func (f *dashboardFixture) seedPickTask(status string) {
	f.t.Helper()
	err := f.tasks.Create(context.Background(), &entity.PickTask{
		ID: uuid.NewString(), Status: status,
	})
	require.NoError(f.t, err)
}

func (f *dashboardFixture) seedPutAway(status string) {
	f.t.Helper()
	err := f.putaways.Create(context.Background(), &entity.PutAwayTask{
		ID: uuid.NewString(), Status: status,
	})
	require.NoError(f.t, err)
}

func (f *dashboardFixture) seedReceipt(status string) {
	f.t.Helper()
	err := f.receipts.Create(context.Background(), &entity.Receipt{
		ID: uuid.NewString(), Status: status,
	})
	require.NoError(f.t, err)
}

func (f *dashboardFixture) seedProduct(sku, name, cost string) {
	f.t.Helper()
	err := f.products.Create(context.Background(), &entity.Product{
		ID: uuid.NewString(), SKU: sku, Name: name, UnitCost: dec(cost), Active: true,
	})
	require.NoError(f.t, err)
}

func (f *dashboardFixture) seedRecord(sku, locationCode, onHand string) {
	f.t.Helper()
	err := f.records.Create(context.Background(), &entity.InventoryRecord{
		ID: uuid.NewString(), SKU: sku, LocationID: uuid.NewString(),
		LocationCode: locationCode, OnHand: dec(onHand),
	})
	require.NoError(f.t, err)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
