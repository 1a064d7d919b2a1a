package packing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/orders"
	"github.com/invorya/wms-api/internal/application/packing"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
)

func TestCompletePackingMarcaElPedidoEmpacado(t *testing.T) {
	fx := newPackingFixture(t)
	ctx := context.Background()
	order := fx.seedOrder(t, entity.OrderStatusPicking, "", lineaResuelta("SKU-1", 5, 5, 0))

	out, err := fx.uc.CompletePacking(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPacked, out.Status)
}

func TestCompletePackingAceptaFaltanteRegistrado(t *testing.T) {
	fx := newPackingFixture(t)
	// la línea se resolvió con 3 tomadas y 2 faltantes
	order := fx.seedOrder(t, entity.OrderStatusPicking, "", lineaResuelta("SKU-1", 5, 3, 2))

	out, err := fx.uc.CompletePacking(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPacked, out.Status)
}

func TestCompletePackingRechazaPickingPendiente(t *testing.T) {
	fx := newPackingFixture(t)
	order := fx.seedOrder(t, entity.OrderStatusPicking, "", lineaResuelta("SKU-1", 5, 2, 0))

	_, err := fx.uc.CompletePacking(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCompletePackingExigePedidoEnPicking(t *testing.T) {
	fx := newPackingFixture(t)
	order := fx.seedOrder(t, entity.OrderStatusWaved, "", lineaResuelta("SKU-1", 5, 5, 0))

	_, err := fx.uc.CompletePacking(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestElUltimoEmpaqueCierraLaOla(t *testing.T) {
	fx := newPackingFixture(t)
	ctx := context.Background()
	wave := fx.seedWave(t, entity.WaveStatusCompleted)
	primero := fx.seedOrder(t, entity.OrderStatusPicking, wave.ID, lineaResuelta("SKU-1", 5, 5, 0))
	segundo := fx.seedOrder(t, entity.OrderStatusPicking, wave.ID, lineaResuelta("SKU-2", 3, 3, 0))
	wave.OrderIDs = []string{primero.ID, segundo.ID}
	require.NoError(t, fx.waves.Update(ctx, wave))

	_, err := fx.uc.CompletePacking(ctx, primero.ID)
	require.NoError(t, err)
	after, err := fx.waves.GetByID(ctx, wave.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WaveStatusCompleted, after.Status, "con un pedido pendiente la ola sigue abierta")

	_, err = fx.uc.CompletePacking(ctx, segundo.ID)
	require.NoError(t, err)
	after, err = fx.waves.GetByID(ctx, wave.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WaveStatusClosed, after.Status)
}

func TestPackingSlipExigeContenidoConfirmado(t *testing.T) {
	fx := newPackingFixture(t)
	ctx := context.Background()
	pendiente := fx.seedOrder(t, entity.OrderStatusWaved, "", lineaResuelta("SKU-1", 5, 0, 0))
	_, err := fx.uc.PackingSlip(ctx, pendiente.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	listo := fx.seedOrder(t, entity.OrderStatusPicking, "", lineaResuelta("SKU-1", 5, 5, 0))
	pdf, err := fx.uc.PackingSlip(ctx, listo.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

// ── helpers ──

type fakeSlips struct{}

func (fakeSlips) PackingSlip(*entity.Order) ([]byte, error) { return []byte("%PDF-empaque"), nil }

type packingFixture struct {
	uc     *packing.UseCase
	orders repository.OrderRepository
	waves  repository.WaveRepository
}

func newPackingFixture(t *testing.T) *packingFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	orderRepo := docstore.NewOrderRepository(store)
	waves := docstore.NewWaveRepository(store)
	products := docstore.NewProductRepository(store)
	ordersUC := orders.NewUseCase(orderRepo, products, zerolog.Nop())
	uc := packing.NewUseCase(orderRepo, waves, ordersUC, fakeSlips{}, zerolog.Nop())
	return &packingFixture{uc: uc, orders: orderRepo, waves: waves}
}

func (fx *packingFixture) seedOrder(t *testing.T, status, waveID string, lines ...entity.OrderLine) *entity.Order {
	t.Helper()
	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Reference: "PED-" + uuid.New().String()[:6],
		Status:    status,
		Priority:  50,
		CutoffAt:  now.Add(4 * time.Hour),
		Destination: entity.Destination{
			Name: "Cliente", Address: "Calle 1 # 2-3", Region: "BOG",
		},
		Lines:     lines,
		WaveID:    waveID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, fx.orders.Create(context.Background(), order))
	return order
}

func (fx *packingFixture) seedWave(t *testing.T, status string) *entity.Wave {
	t.Helper()
	now := time.Now()
	wave := &entity.Wave{
		ID:        uuid.New().String(),
		Number:    "WV-TEST",
		Status:    status,
		CutoffAt:  now.Add(4 * time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, fx.waves.Create(context.Background(), wave))
	return wave
}

// lineaResuelta arma una línea con todo lo pedido reservado y el resultado
// de picking dado.
func lineaResuelta(sku string, qty, picked, short int64) entity.OrderLine {
	return entity.OrderLine{
		SKU:          sku,
		Quantity:     decimal.NewFromInt(qty),
		AllocatedQty: decimal.NewFromInt(qty),
		PickedQty:    decimal.NewFromInt(picked),
		ShortQty:     decimal.NewFromInt(short),
		Short:        short > 0,
	}
}
