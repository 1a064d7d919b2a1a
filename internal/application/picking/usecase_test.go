package picking_test

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
	"github.com/invorya/wms-api/internal/application/dto"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/application/picking"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
	"github.com/invorya/wms-api/pkg/keymutex"
)

func TestGenerateTasks_ConsolidaPorUbicacionYSKU(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	fx.seedStock(t, "SKU-2", "B-02", "L-9", 10)

	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	o2 := fx.allocatedOrder(t, line("SKU-1", 7), line("SKU-2", 2))
	wave := fx.seedWave(t, o1, o2)

	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)

	require.Len(t, res.Tasks, 2, "una tarea por pareja ubicación-SKU, no por pedido")
	assert.Equal(t, "A-01", res.Tasks[0].LocationCode, "las tareas salen en orden de recorrido")
	assert.Equal(t, "SKU-1", res.Tasks[0].SKU)
	assert.True(t, res.Tasks[0].Quantity.Equal(dec(12)), "5 del primer pedido + 7 del segundo")
	assert.Len(t, res.Tasks[0].AllocationIDs, 2)
	assert.Equal(t, "B-02", res.Tasks[1].LocationCode)
	assert.True(t, res.Tasks[1].Quantity.Equal(dec(2)))

	assert.Equal(t, entity.WaveStatusReleased, res.Wave.Status)
	assert.NotNil(t, res.Wave.ReleasedAt)
}

func TestGenerateTasks_RepetirNoGeneraTareasNuevas(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)

	first, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)
	second, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)

	require.Len(t, second.Tasks, len(first.Tasks))
	assert.Equal(t, first.Tasks[0].ID, second.Tasks[0].ID, "liberar dos veces devuelve las mismas tareas")
}

func TestGenerateTasks_OlaInexistente(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)

	_, err := fx.uc.GenerateTasks(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateTasks_OlaCanceladaNoSeLibera(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)
	wave.Status = entity.WaveStatusCancelled
	require.NoError(t, fx.waves.Update(ctx, wave))

	_, err := fx.uc.GenerateTasks(ctx, wave.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestAssignYStart_AvanzanTareaYPedidos(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)
	taskID := res.Tasks[0].ID

	_, err = fx.uc.Assign(ctx, taskID, dto.AssignPickTaskRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "asignar sin operario es inválido")

	assigned, err := fx.uc.Assign(ctx, taskID, dto.AssignPickTaskRequest{UserID: "op1"})
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusAssigned, assigned.Status)
	assert.Equal(t, "op1", assigned.AssignedTo)
	assert.Equal(t, 1, assigned.Version, "cada escritura condicional sube la versión")

	started, err := fx.uc.Start(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusInProgress, started.Status)
	assert.Equal(t, 2, started.Version)

	order, err := fx.orders.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPicking, order.Status, "la primera tarea en arrancar mueve los pedidos de la ola")
}

func TestStart_SinAsignarEsConflictoDeEstado(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)

	_, err = fx.uc.Start(ctx, res.Tasks[0].ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestComplete_TomaCompletaConsumeLasReservas(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	fx.seedStock(t, "SKU-2", "B-02", "L-9", 10)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	o2 := fx.allocatedOrder(t, line("SKU-1", 7), line("SKU-2", 2))
	wave := fx.seedWave(t, o1, o2)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)

	version := fx.readyTask(t, res.Tasks[0].ID)
	done, err := fx.uc.Complete(ctx, res.Tasks[0].ID, "op1", dto.CompletePickTaskRequest{
		PickedQty: dec(12), Version: version,
	})
	require.NoError(t, err)
	require.NotNil(t, done.Result)
	assert.True(t, done.Result.PickedQty.Equal(dec(12)))
	assert.True(t, done.Result.ShortQty.IsZero())

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.OnHand.Equal(dec(8)), "20 en bodega menos 12 despachadas")
	assert.True(t, avail.Allocated.IsZero(), "las reservas consumidas desaparecen")

	r1, err := fx.orders.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	assert.True(t, r1.Lines[0].PickedQty.Equal(dec(5)))
	r2, err := fx.orders.GetByID(ctx, o2.ID)
	require.NoError(t, err)
	assert.True(t, r2.Lines[0].PickedQty.Equal(dec(7)))
	assert.False(t, r2.Lines[0].Short)

	w, err := fx.waves.GetByID(ctx, wave.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WaveStatusReleased, w.Status, "queda una tarea pendiente: la ola sigue abierta")

	version = fx.readyTask(t, res.Tasks[1].ID)
	_, err = fx.uc.Complete(ctx, res.Tasks[1].ID, "op1", dto.CompletePickTaskRequest{
		PickedQty: dec(2), Version: version,
	})
	require.NoError(t, err)

	w, err = fx.waves.GetByID(ctx, wave.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WaveStatusCompleted, w.Status, "la última tarea cierra la ola")
	assert.NotNil(t, w.CompletedAt)

	r1, err = fx.orders.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPicking, r1.Status, "los pedidos esperan al empaque")
}

func TestComplete_TomaCortaLiberaElFaltanteYMarcaLineas(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	o2 := fx.allocatedOrder(t, line("SKU-1", 7))
	wave := fx.seedWave(t, o1, o2)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)
	taskID := res.Tasks[0].ID

	version := fx.readyTask(t, taskID)
	done, err := fx.uc.Complete(ctx, taskID, "op1", dto.CompletePickTaskRequest{
		PickedQty: dec(8), Version: version,
	})
	require.NoError(t, err)
	assert.True(t, done.Result.PickedQty.Equal(dec(8)))
	assert.True(t, done.Result.ShortQty.Equal(dec(4)))

	// el faltante recae en la reserva más nueva: el primer pedido sale completo
	r1, err := fx.orders.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	assert.True(t, r1.Lines[0].PickedQty.Equal(dec(5)))
	assert.False(t, r1.Lines[0].Short)

	r2, err := fx.orders.GetByID(ctx, o2.ID)
	require.NoError(t, err)
	assert.True(t, r2.Lines[0].PickedQty.Equal(dec(3)))
	assert.True(t, r2.Lines[0].ShortQty.Equal(dec(4)))
	assert.True(t, r2.Lines[0].Short)

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.OnHand.Equal(dec(12)), "solo bajan las 8 unidades tomadas")
	assert.True(t, avail.Allocated.IsZero())
	assert.True(t, avail.Available.Equal(dec(12)), "el faltante liberado vuelve al disponible")
}

func TestComplete_VersionViejaPierdeSinEfectos(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)
	taskID := res.Tasks[0].ID
	fx.readyTask(t, taskID)

	_, err = fx.uc.Complete(ctx, taskID, "op1", dto.CompletePickTaskRequest{
		PickedQty: dec(5), Version: 0,
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	task, err := fx.uc.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusInProgress, task.Status, "la escritura perdedora no toca la tarea")

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.OnHand.Equal(dec(20)))
	assert.True(t, avail.Allocated.Equal(dec(5)), "la reserva sigue viva")
}

func TestComplete_RepetirDevuelveElResultadoGuardado(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)
	taskID := res.Tasks[0].ID

	version := fx.readyTask(t, taskID)
	_, err = fx.uc.Complete(ctx, taskID, "op1", dto.CompletePickTaskRequest{PickedQty: dec(5), Version: version})
	require.NoError(t, err)

	again, err := fx.uc.Complete(ctx, taskID, "op2", dto.CompletePickTaskRequest{PickedQty: dec(1), Version: 99})
	require.NoError(t, err)
	assert.True(t, again.Result.PickedQty.Equal(dec(5)), "se devuelve lo registrado, no lo reenviado")

	avail, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, avail.OnHand.Equal(dec(15)), "los efectos no se aplican dos veces")
}

func TestComplete_CantidadFueraDeRango(t *testing.T) {
	ctx := context.Background()
	fx := newPickingFixture(t)
	fx.seedStock(t, "SKU-1", "A-01", "L-1", 20)
	o1 := fx.allocatedOrder(t, line("SKU-1", 5))
	wave := fx.seedWave(t, o1)
	res, err := fx.uc.GenerateTasks(ctx, wave.ID)
	require.NoError(t, err)
	taskID := res.Tasks[0].ID
	version := fx.readyTask(t, taskID)

	_, err = fx.uc.Complete(ctx, taskID, "op1", dto.CompletePickTaskRequest{PickedQty: dec(6), Version: version})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tomar más de lo reservado es inválido")

	_, err = fx.uc.Complete(ctx, taskID, "op1", dto.CompletePickTaskRequest{PickedQty: dec(-1), Version: version})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── helpers ──

type pickingFixture struct {
	uc        *picking.UseCase
	engine    *allocation.Engine
	ledger    *appinv.LedgerUseCase
	orders    repository.OrderRepository
	waves     repository.WaveRepository
	locations repository.LocationRepository
}

func newPickingFixture(t *testing.T) *pickingFixture {
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

	locks := keymutex.New()
	ledger := appinv.NewLedgerUseCase(records, allocations, movements, lots, locations, putaways, zerolog.Nop())
	engine := allocation.NewEngine(orders, allocations, waves, tasks, ledger, locks, false, zerolog.Nop())
	uc := picking.NewUseCase(waves, tasks, allocations, orders, ledger, locks, zerolog.Nop())
	return &pickingFixture{
		uc:        uc,
		engine:    engine,
		ledger:    ledger,
		orders:    orders,
		waves:     waves,
		locations: locations,
	}
}

func (fx *pickingFixture) seedStock(t *testing.T, sku, locCode, lotCode string, onHand int64) {
	t.Helper()
	ctx := context.Background()
	if loc, err := fx.locations.GetByCode(ctx, locCode); err == nil && loc == nil {
		require.NoError(t, fx.locations.Create(ctx, &entity.Location{
			ID: uuid.New().String(), Code: locCode, Type: entity.LocationTypePick, Active: true,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	}
	require.NoError(t, fx.ledger.Enter(ctx, appinv.EntryInput{
		SKU: sku, LocationCode: locCode, LotCode: lotCode,
		Quantity: decimal.NewFromInt(onHand), Reason: "carga inicial", Actor: "test",
	}))
}

// allocatedOrder persiste un pedido VALIDATED y lo asigna con el motor real
// para que las reservas existan de verdad en el ledger.
func (fx *pickingFixture) allocatedOrder(t *testing.T, lines ...entity.OrderLine) *entity.Order {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Reference: "PED-" + uuid.New().String()[:8],
		Status:    entity.OrderStatusValidated,
		Priority:  50,
		CutoffAt:  now.Add(12 * time.Hour),
		Destination: entity.Destination{
			Name: "Cliente", Address: "Cll 1 # 2-3", Region: "Cundinamarca",
		},
		Lines:     lines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, fx.orders.Create(ctx, order))
	_, err := fx.engine.AllocateOrder(ctx, order.ID)
	require.NoError(t, err)
	return order
}

func (fx *pickingFixture) seedWave(t *testing.T, members ...*entity.Order) *entity.Wave {
	t.Helper()
	ctx := context.Background()
	wave := &entity.Wave{
		ID:        uuid.New().String(),
		Status:    entity.WaveStatusPlanned,
		CutoffAt:  time.Now().Add(12 * time.Hour),
		CreatedAt: time.Now(),
	}
	wave.Number = "WV-" + wave.ID[:8]
	for _, o := range members {
		reloaded, err := fx.orders.GetByID(ctx, o.ID)
		require.NoError(t, err)
		reloaded.WaveID = wave.ID
		reloaded.Status = entity.OrderStatusWaved
		reloaded.UpdatedAt = time.Now()
		require.NoError(t, fx.orders.Update(ctx, reloaded))
		wave.OrderIDs = append(wave.OrderIDs, o.ID)
		wave.LineCount += o.TotalLines()
	}
	require.NoError(t, fx.waves.Create(ctx, wave))
	return wave
}

// readyTask asigna y arranca la tarea, devolviendo la versión vigente para
// la escritura condicional del cierre.
func (fx *pickingFixture) readyTask(t *testing.T, taskID string) int {
	t.Helper()
	ctx := context.Background()
	_, err := fx.uc.Assign(ctx, taskID, dto.AssignPickTaskRequest{UserID: "op1"})
	require.NoError(t, err)
	started, err := fx.uc.Start(ctx, taskID)
	require.NoError(t, err)
	return started.Version
}

func line(sku string, qty int64) entity.OrderLine {
	return entity.OrderLine{SKU: sku, Quantity: decimal.NewFromInt(qty)}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
