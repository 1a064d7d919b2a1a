package allocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/allocation"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
	"github.com/invorya/wms-api/pkg/keymutex"
)

func TestAllocate_ReservaFEFOYAvanzaElPedido(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-PRONTO", venc(2026, 9, 5), 6)
	fx.seedStock(t, "SKU-1", "B-01", "L-TARDE", venc(2026, 12, 1), 10)
	order := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 8))

	res, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusAllocated, res.Order.Status)
	assert.True(t, res.Order.Lines[0].AllocatedQty.Equal(dec(8)))
	require.Len(t, res.Allocations, 2, "8 pedidas = 6 del lote próximo + 2 del tardío")
	porLote := map[string]decimal.Decimal{}
	for _, a := range res.Allocations {
		porLote[a.LotCode] = a.Quantity
	}
	assert.True(t, porLote["L-PRONTO"].Equal(dec(6)), "FEFO agota primero el lote que vence antes")
	assert.True(t, porLote["L-TARDE"].Equal(dec(2)))

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.Allocated.Equal(dec(8)))
}

func TestAllocate_LineaSinStockRevierteElPedidoCompleto(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-A", "A-01", "L-1", nil, 10)
	order := fx.seedOrder(t, entity.OrderStatusValidated, "",
		line("SKU-A", 4), line("SKU-B", 2))

	_, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "SKU-B", "el error nombra la línea que faltó")

	avail, err := fx.ledger.Availability(ctx, "SKU-A")
	require.NoError(t, err)
	assert.True(t, avail.Allocated.IsZero(), "la reserva de la primera línea se libera")

	reloaded, err := fx.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusValidated, reloaded.Status, "el pedido queda como estaba")
	assert.True(t, reloaded.Lines[0].AllocatedQty.IsZero())
}

func TestAllocate_RepetirNoDuplicaReservas(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 20)
	order := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 5))

	first, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)
	second, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, len(first.Allocations), len(second.Allocations))
	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.Allocated.Equal(dec(5)), "la segunda llamada no reserva de nuevo")
}

func TestAllocate_ParcialConPoliticaActivaYConvergencia(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, true)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 3)
	order := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 5))

	res, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartiallyAllocated, res.Order.Status)
	assert.True(t, res.Order.Lines[0].AllocatedQty.Equal(dec(3)))

	// llega más stock y la re-asignación solo pide lo que falta
	fx.seedStock(t, "SKU-1", "A-01", "L-2", nil, 10)
	res, err = fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAllocated, res.Order.Status)
	assert.True(t, res.Order.Lines[0].AllocatedQty.Equal(dec(5)))

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.Allocated.Equal(dec(5)))
}

func TestAllocate_ParcialSinPoliticaFalla(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 3)
	order := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 5))

	_, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.Allocated.IsZero())
}

func TestAllocate_PedidoSinValidarNoEsAsignable(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	order := fx.seedOrder(t, entity.OrderStatusCreated, "", line("SKU-1", 5))

	_, err := fx.engine.AllocateOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestAllocate_PedidoInexistente(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)

	_, err := fx.engine.AllocateOrder(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_LiberaTodasLasReservas(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 10)
	order := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 4))
	_, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)

	res, err := fx.engine.CancelOrder(ctx, order.ID, "cliente desistió", "sup1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, res.Status)
	assert.True(t, res.Lines[0].AllocatedQty.IsZero())

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.OnHand.Equal(dec(10)), "cancelar no toca la existencia física")
	assert.True(t, avail.Available.Equal(dec(10)))

	allocs, err := fx.allocations.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, allocs)
}

func TestCancel_EnOlaEncogeLaTareaPendiente(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 20)

	o1 := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 5))
	o2 := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 7))
	_, err := fx.engine.AllocateOrder(ctx, o1.ID)
	require.NoError(t, err)
	_, err = fx.engine.AllocateOrder(ctx, o2.ID)
	require.NoError(t, err)

	wave := fx.seedWave(t, entity.WaveStatusReleased, o1, o2)
	task := fx.seedTaskCovering(t, wave, entity.PickTaskStatusPending, o1.ID, o2.ID)

	_, err = fx.engine.CancelOrder(ctx, o1.ID, "sin pago", "sup1")
	require.NoError(t, err)

	reloaded, err := fx.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Quantity.Equal(dec(7)), "la tarea queda solo con lo del pedido vivo")
	for _, id := range reloaded.AllocationIDs {
		alloc, err := fx.allocations.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, alloc)
		assert.Equal(t, o2.ID, alloc.OrderID)
	}

	w, err := fx.waves.GetByID(ctx, wave.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{o2.ID}, w.OrderIDs)
	assert.Equal(t, 1, w.LineCount)

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.Allocated.Equal(dec(7)))
}

func TestCancel_VaciadaLaTareaSeCierraEnCero(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 20)

	o1 := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 5))
	_, err := fx.engine.AllocateOrder(ctx, o1.ID)
	require.NoError(t, err)

	wave := fx.seedWave(t, entity.WaveStatusReleased, o1)
	task := fx.seedTaskCovering(t, wave, entity.PickTaskStatusPending, o1.ID)

	_, err = fx.engine.CancelOrder(ctx, o1.ID, "", "sup1")
	require.NoError(t, err)

	reloaded, err := fx.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.Result)
	assert.True(t, reloaded.Result.PickedQty.IsZero())
}

func TestCancel_ConPickingEnCursoRechaza(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", nil, 20)

	o1 := fx.seedOrder(t, entity.OrderStatusValidated, "", line("SKU-1", 5))
	_, err := fx.engine.AllocateOrder(ctx, o1.ID)
	require.NoError(t, err)

	wave := fx.seedWave(t, entity.WaveStatusReleased, o1)
	fx.seedTaskCovering(t, wave, entity.PickTaskStatusInProgress, o1.ID)

	_, err = fx.engine.CancelOrder(ctx, o1.ID, "tarde", "sup1")
	require.ErrorIs(t, err, domain.ErrStateConflict)

	reloaded, err := fx.orders.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusWaved, reloaded.Status, "el rechazo no toca el pedido")
	assert.Equal(t, wave.ID, reloaded.WaveID)
}

func TestCancel_PedidoDespachadoNoSeCancela(t *testing.T) {
	ctx := context.Background()
	fx := newEngineFixture(t, false)
	order := fx.seedOrder(t, entity.OrderStatusShipped, "", line("SKU-1", 5))

	_, err := fx.engine.CancelOrder(ctx, order.ID, "", "sup1")
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

// ── helpers ──

type engineFixture struct {
	engine      *allocation.Engine
	ledger      *appinv.LedgerUseCase
	orders      repository.OrderRepository
	allocations repository.AllocationRepository
	waves       repository.WaveRepository
	tasks       repository.PickTaskRepository
	locations   repository.LocationRepository
}

func newEngineFixture(t *testing.T, allowPartial bool) *engineFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	records := docstore.NewInventoryRecordRepository(store)
	allocations := docstore.NewAllocationRepository(store)
	movements := docstore.NewStockMovementRepository(store)
	lots := docstore.NewLotRepository(store)
	locations := docstore.NewLocationRepository(store)
	putaways := docstore.NewPutAwayTaskRepository(store)
	orders := docstore.NewOrderRepository(store)
	waves := docstore.NewWaveRepository(store)
	tasks := docstore.NewPickTaskRepository(store)

	ledger := appinv.NewLedgerUseCase(records, allocations, movements, lots, locations, putaways, zerolog.Nop())
	engine := allocation.NewEngine(orders, allocations, waves, tasks, ledger, keymutex.New(), allowPartial, zerolog.Nop())
	return &engineFixture{
		engine:      engine,
		ledger:      ledger,
		orders:      orders,
		allocations: allocations,
		waves:       waves,
		tasks:       tasks,
		locations:   locations,
	}
}

func (fx *engineFixture) seedStock(t *testing.T, sku, locCode, lotCode string, expiry *time.Time, onHand int64) {
	t.Helper()
	ctx := context.Background()
	if loc, err := fx.locations.GetByCode(ctx, locCode); err == nil && loc == nil {
		require.NoError(t, fx.locations.Create(ctx, &entity.Location{
			ID: uuid.New().String(), Code: locCode, Type: entity.LocationTypePick, Active: true,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	}
	require.NoError(t, fx.ledger.Enter(ctx, appinv.EntryInput{
		SKU: sku, LocationCode: locCode, LotCode: lotCode, ExpiryDate: expiry,
		Quantity: decimal.NewFromInt(onHand), Reason: "carga inicial", Actor: "test",
	}))
}

func (fx *engineFixture) seedOrder(t *testing.T, status, waveID string, lines ...entity.OrderLine) *entity.Order {
	t.Helper()
	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Reference: "PED-" + uuid.New().String()[:8],
		Status:    status,
		Priority:  50,
		CutoffAt:  now.Add(12 * time.Hour),
		Destination: entity.Destination{
			Name: "Cliente", Address: "Cll 1 # 2-3", Region: "Cundinamarca",
		},
		Lines:     lines,
		WaveID:    waveID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, fx.orders.Create(context.Background(), order))
	return order
}

// seedWave persiste una ola con los pedidos dados como miembros WAVED.
func (fx *engineFixture) seedWave(t *testing.T, status string, members ...*entity.Order) *entity.Wave {
	t.Helper()
	ctx := context.Background()
	wave := &entity.Wave{
		ID:        uuid.New().String(),
		Status:    status,
		CutoffAt:  time.Now().Add(12 * time.Hour),
		CreatedAt: time.Now(),
	}
	wave.Number = "WV-" + wave.ID[:8]
	for _, o := range members {
		wave.OrderIDs = append(wave.OrderIDs, o.ID)
		wave.LineCount += o.TotalLines()
		o.WaveID = wave.ID
		o.Status = entity.OrderStatusWaved
		o.UpdatedAt = time.Now()
		require.NoError(t, fx.orders.Update(ctx, o))
	}
	require.NoError(t, fx.waves.Create(ctx, wave))
	return wave
}

// seedTaskCovering crea una tarea que consolida todas las reservas de los
// pedidos indicados, como lo haría la liberación de la ola.
func (fx *engineFixture) seedTaskCovering(t *testing.T, wave *entity.Wave, status string, orderIDs ...string) *entity.PickTask {
	t.Helper()
	ctx := context.Background()
	task := &entity.PickTask{
		ID:        uuid.New().String(),
		WaveID:    wave.ID,
		Status:    status,
		Quantity:  decimal.Zero,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, orderID := range orderIDs {
		allocs, err := fx.allocations.ListByOrder(ctx, orderID)
		require.NoError(t, err)
		require.NotEmpty(t, allocs)
		for _, a := range allocs {
			task.SKU = a.SKU
			task.LocationID = a.LocationID
			task.LocationCode = a.LocationCode
			task.AllocationIDs = append(task.AllocationIDs, a.ID)
			task.Quantity = task.Quantity.Add(a.Quantity)
		}
	}
	require.NoError(t, fx.tasks.Create(ctx, task))
	return task
}

func line(sku string, qty int64) entity.OrderLine {
	return entity.OrderLine{SKU: sku, Quantity: decimal.NewFromInt(qty)}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func venc(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
