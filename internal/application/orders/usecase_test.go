package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/orders"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
)

func TestCreate_SinCorteAsumeVeinticuatroHoras(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	res, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 2)))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCreated, res.Status)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), res.CutoffAt, 2*time.Second,
		"sin corte explícito el pedido sale en la ventana de 24 horas")
}

func TestCreate_RespetaElCorteExplicito(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	cutoff := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	req := validRequest(line("SKU-1", 2))
	req.CutoffAt = cutoff

	res, err := fx.uc.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.CutoffAt.Equal(cutoff))
}

func TestCreate_RechazaDatosIncompletos(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	req := validRequest(line("SKU-1", 2))
	req.Reference = ""
	_, err := fx.uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin referencia")

	req = validRequest(line("SKU-1", 2))
	req.Lines = nil
	_, err = fx.uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	req = validRequest(line("SKU-1", 2))
	req.Destination.Region = ""
	_, err = fx.uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin región de destino")

	req = validRequest(line("SKU-1", 2))
	req.Priority = 101
	_, err = fx.uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "prioridad fuera de rango")

	req = validRequest(line("SKU-1", 2))
	req.SLADeliveryDays = -1
	_, err = fx.uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "SLA negativo")
}

func TestValidate_CompletaLaDescripcionDesdeElCatalogo(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)
	fx.seedProduct(t, "SKU-1", "Café tostado 500g", true)

	created, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 3)))
	require.NoError(t, err)

	res, err := fx.uc.Validate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusValidated, res.Status)
	assert.Equal(t, "Café tostado 500g", res.Lines[0].Description)
}

func TestValidate_SKUDesconocidoRechazaYNoAvanza(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	created, err := fx.uc.Create(ctx, validRequest(line("SKU-FANTASMA", 3)))
	require.NoError(t, err)

	_, err = fx.uc.Validate(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "SKU-FANTASMA", "el error nombra el SKU que falló")

	reloaded, err := fx.uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCreated, reloaded.Status)
}

func TestValidate_ProductoInactivoRechaza(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)
	fx.seedProduct(t, "SKU-1", "Descontinuado", false)

	created, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 3)))
	require.NoError(t, err)

	_, err = fx.uc.Validate(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidate_CantidadNoPositivaRechaza(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)
	fx.seedProduct(t, "SKU-1", "Café", true)

	created, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 0)))
	require.NoError(t, err)

	_, err = fx.uc.Validate(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidate_DosVecesEsConflictoDeEstado(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)
	fx.seedProduct(t, "SKU-1", "Café", true)

	created, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 3)))
	require.NoError(t, err)
	_, err = fx.uc.Validate(ctx, created.ID)
	require.NoError(t, err)

	_, err = fx.uc.Validate(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestValidate_PedidoInexistente(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	_, err := fx.uc.Validate(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_InexistenteDevuelveNil(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	res, err := fx.uc.GetByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestList_FiltraPorEstado(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)
	fx.seedProduct(t, "SKU-1", "Café", true)

	a, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 1)))
	require.NoError(t, err)
	_, err = fx.uc.Create(ctx, validRequest(line("SKU-1", 2)))
	require.NoError(t, err)
	_, err = fx.uc.Validate(ctx, a.ID)
	require.NoError(t, err)

	validated, err := fx.uc.List(ctx, dto.PageRequest{}, entity.OrderStatusValidated)
	require.NoError(t, err)
	require.Len(t, validated.Items, 1)
	assert.Equal(t, a.ID, validated.Items[0].ID)

	all, err := fx.uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestTransicionIlegalNoTocaElPedido(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)

	created, err := fx.uc.Create(ctx, validRequest(line("SKU-1", 1)))
	require.NoError(t, err)

	err = fx.uc.MarkPacked(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrStateConflict)

	reloaded, err := fx.uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCreated, reloaded.Status)
}

func TestAvance_EmpacadoDespachadoCerrado(t *testing.T) {
	ctx := context.Background()
	fx := newOrdersFixture(t)
	order := fx.seedOrderIn(t, entity.OrderStatusPacked)

	require.NoError(t, fx.uc.MarkShipped(ctx, order.ID))
	require.NoError(t, fx.uc.Close(ctx, order.ID))

	reloaded, err := fx.uc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusClosed, reloaded.Status)

	// cerrado es terminal
	err = fx.uc.MarkShipped(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

// ── helpers ──

type ordersFixture struct {
	uc       *orders.UseCase
	orders   repository.OrderRepository
	products repository.ProductRepository
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	ordersRepo := docstore.NewOrderRepository(store)
	productsRepo := docstore.NewProductRepository(store)
	return &ordersFixture{
		uc:       orders.NewUseCase(ordersRepo, productsRepo, zerolog.Nop()),
		orders:   ordersRepo,
		products: productsRepo,
	}
}

func (fx *ordersFixture) seedProduct(t *testing.T, sku, name string, active bool) {
	t.Helper()
	now := time.Now()
	require.NoError(t, fx.products.Create(context.Background(), &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: name, UnitMeasure: "UN",
		Active: active, CreatedAt: now, UpdatedAt: now,
	}))
}

func (fx *ordersFixture) seedOrderIn(t *testing.T, status string) *entity.Order {
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
		Lines:     []entity.OrderLine{{SKU: "SKU-1", Quantity: decimal.NewFromInt(1)}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, fx.orders.Create(context.Background(), order))
	return order
}

func validRequest(lines ...dto.OrderLineRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Reference: "PED-" + uuid.New().String()[:8],
		Priority:  50,
		Destination: dto.DestinationRequest{
			Name: "Cliente", Address: "Cll 1 # 2-3", Region: "Cundinamarca",
		},
		Lines: lines,
	}
}

func line(sku string, qty int64) dto.OrderLineRequest {
	return dto.OrderLineRequest{SKU: sku, Quantity: decimal.NewFromInt(qty)}
}
