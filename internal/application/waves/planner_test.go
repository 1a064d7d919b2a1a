package waves_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/waves"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
	"github.com/invorya/wms-api/pkg/keymutex"
)

func TestPlan_AdmisionDeterministaPorPrioridadYCorte(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	a := fx.seedAllocated(t, "Cundinamarca", 5, base.Add(8*time.Hour), 1)
	b := fx.seedAllocated(t, "Cundinamarca", 9, base.Add(14*time.Hour), 1)
	c := fx.seedAllocated(t, "Cundinamarca", 9, base.Add(10*time.Hour), 1)

	res, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{})
	require.NoError(t, err)

	assert.Equal(t, []string{c.ID, b.ID, a.ID}, res.OrderIDs,
		"prioridad descendente y, a igual prioridad, el corte más próximo primero")
	assert.Equal(t, entity.WaveStatusPlanned, res.Status)
	assert.Equal(t, 3, res.LineCount)
	assert.Contains(t, res.Number, "WV-")
}

func TestPlan_FiltraPorRegionPrioridadYCorte(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dentro := fx.seedAllocated(t, "Antioquia", 70, base.Add(4*time.Hour), 1)
	// fuera: otra región, prioridad baja y corte tardío
	fx.seedAllocated(t, "Cundinamarca", 70, base.Add(4*time.Hour), 1)
	fx.seedAllocated(t, "Antioquia", 30, base.Add(4*time.Hour), 1)
	fx.seedAllocated(t, "Antioquia", 70, base.Add(48*time.Hour), 1)

	limite := base.Add(12 * time.Hour)
	res, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{
		Region:       "Antioquia",
		PriorityMin:  50,
		CutoffBefore: &limite,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{dentro.ID}, res.OrderIDs)
	assert.True(t, res.CutoffAt.Equal(limite), "con criterio de corte la ola hereda ese corte")
}

func TestPlan_RespetaElCupoDePedidos(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	primero := fx.seedAllocated(t, "Antioquia", 90, base.Add(2*time.Hour), 1)
	segundo := fx.seedAllocated(t, "Antioquia", 80, base.Add(2*time.Hour), 1)
	tercero := fx.seedAllocated(t, "Antioquia", 70, base.Add(2*time.Hour), 1)

	res, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{MaxOrders: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{primero.ID, segundo.ID}, res.OrderIDs)

	fuera, err := fx.orders.GetByID(ctx, tercero.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAllocated, fuera.Status, "el que no cupo queda disponible")
	assert.Empty(t, fuera.WaveID)
}

func TestPlan_CupoDeLineasSaltaYSigueConElSiguiente(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	grande := fx.seedAllocated(t, "Antioquia", 90, base.Add(2*time.Hour), 3)
	chico := fx.seedAllocated(t, "Antioquia", 50, base.Add(2*time.Hour), 1)

	res, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{MaxLines: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{chico.ID}, res.OrderIDs,
		"el pedido que revienta el cupo de líneas se salta sin abortar el plan")
	assert.Equal(t, 1, res.LineCount)

	saltado, err := fx.orders.GetByID(ctx, grande.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAllocated, saltado.Status)
	assert.Empty(t, saltado.WaveID)
}

func TestPlan_SinCandidatosEsSeleccionVacia(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	_, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestPlan_PedidoYaEnOlaNoSeReadmite(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	o := fx.seedAllocated(t, "Antioquia", 50, base.Add(2*time.Hour), 1)
	_, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{})
	require.NoError(t, err)

	_, err = fx.planner.Plan(ctx, dto.PlanWaveRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	reloaded, err := fx.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusWaved, reloaded.Status)
}

func TestPlan_AdmitidosQuedanWavedConSuOla(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	o1 := fx.seedAllocated(t, "Antioquia", 50, base.Add(2*time.Hour), 2)
	o2 := fx.seedAllocated(t, "Antioquia", 50, base.Add(6*time.Hour), 1)

	res, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.LineCount)
	assert.True(t, res.CutoffAt.Equal(o2.CutoffAt), "sin criterio de corte la ola toma el corte más lejano de sus miembros")

	persisted, err := fx.waves.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, entity.WaveStatusPlanned, persisted.Status)

	for _, id := range []string{o1.ID, o2.ID} {
		reloaded, err := fx.orders.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusWaved, reloaded.Status)
		assert.Equal(t, res.ID, reloaded.WaveID)
	}
}

func TestPlan_ParametrosNegativosInvalidos(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	_, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{MaxOrders: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ManualEstrictaRevierteTodoSiUnoFalla(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	bueno := fx.seedAllocated(t, "Antioquia", 50, base.Add(2*time.Hour), 1)
	crudo := fx.seedOrderIn(t, entity.OrderStatusCreated)

	_, err := fx.planner.Create(ctx, dto.CreateWaveRequest{OrderIDs: []string{bueno.ID, crudo.ID}})
	require.ErrorIs(t, err, domain.ErrStateConflict)

	reloaded, err := fx.orders.GetByID(ctx, bueno.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAllocated, reloaded.Status, "el admitido vuelve a su estado previo")
	assert.Empty(t, reloaded.WaveID)
}

func TestCreate_ManualConPedidoInexistenteFalla(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	bueno := fx.seedAllocated(t, "Antioquia", 50, base.Add(2*time.Hour), 1)

	_, err := fx.planner.Create(ctx, dto.CreateWaveRequest{OrderIDs: []string{bueno.ID, uuid.New().String()}})
	require.ErrorIs(t, err, domain.ErrNotFound)

	reloaded, err := fx.orders.GetByID(ctx, bueno.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.WaveID)
}

func TestPlan_ConcurrentesNoCompartenPedidos(t *testing.T) {
	ctx := context.Background()
	fx := newPlannerFixture(t)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	total := 20
	for i := 0; i < total; i++ {
		fx.seedAllocated(t, "Antioquia", 50, base.Add(time.Duration(i)*time.Minute), 1)
	}

	const planes = 4
	results := make(chan *dto.WaveResponse, planes)
	var wg sync.WaitGroup
	for i := 0; i < planes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := fx.planner.Plan(ctx, dto.PlanWaveRequest{MaxOrders: 8})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrEmptySelection,
					"el único error admisible para un plan que llegó tarde")
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]string{}
	admitted := 0
	for res := range results {
		for _, orderID := range res.OrderIDs {
			previo, dup := seen[orderID]
			assert.False(t, dup, "pedido %s admitido por las olas %s y %s", orderID, previo, res.ID)
			seen[orderID] = res.ID
			admitted++
		}
	}
	assert.Equal(t, total, admitted, "entre todos los planes se admite cada pedido exactamente una vez")
}

// ── helpers ──

type plannerFixture struct {
	planner *waves.Planner
	orders  repository.OrderRepository
	waves   repository.WaveRepository
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	ordersRepo := docstore.NewOrderRepository(store)
	wavesRepo := docstore.NewWaveRepository(store)
	return &plannerFixture{
		planner: waves.NewPlanner(ordersRepo, wavesRepo, keymutex.New(), zerolog.Nop()),
		orders:  ordersRepo,
		waves:   wavesRepo,
	}
}

// seedAllocated persiste un pedido ALLOCATED con n líneas de una unidad ya
// reservada cada una.
func (fx *plannerFixture) seedAllocated(t *testing.T, region string, priority int, cutoff time.Time, n int) *entity.Order {
	t.Helper()
	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Reference: "PED-" + uuid.New().String()[:8],
		Status:    entity.OrderStatusAllocated,
		Priority:  priority,
		CutoffAt:  cutoff,
		Destination: entity.Destination{
			Name: "Cliente", Address: "Cll 1 # 2-3", Region: region,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := 0; i < n; i++ {
		order.Lines = append(order.Lines, entity.OrderLine{
			SKU:          "SKU-" + uuid.New().String()[:4],
			Quantity:     decimal.NewFromInt(1),
			AllocatedQty: decimal.NewFromInt(1),
		})
	}
	require.NoError(t, fx.orders.Create(context.Background(), order))
	return order
}

func (fx *plannerFixture) seedOrderIn(t *testing.T, status string) *entity.Order {
	t.Helper()
	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Reference: "PED-" + uuid.New().String()[:8],
		Status:    status,
		Priority:  50,
		CutoffAt:  now.Add(12 * time.Hour),
		Destination: entity.Destination{
			Name: "Cliente", Address: "Cll 1 # 2-3", Region: "Antioquia",
		},
		Lines:     []entity.OrderLine{{SKU: "SKU-1", Quantity: decimal.NewFromInt(1)}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, fx.orders.Create(context.Background(), order))
	return order
}
