package shipping_test

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
	appship "github.com/invorya/wms-api/internal/application/shipping"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	shipdomain "github.com/invorya/wms-api/internal/domain/shipping"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
)

func TestCreateExigePedidoEmpacado(t *testing.T) {
	fx := newShippingFixture(t)
	order := fx.seedOrder(t, entity.OrderStatusPicking, "BOG", 0, linea("SKU-1", 2))

	_, err := fx.uc.Create(context.Background(), dto.CreateShipmentRequest{OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCreateDerivaPesoYLadoMayorDelCatalogo(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	// SKU-1: 2.5 kg, 30x20x10 | SKU-2: 1 kg, 40x10x5
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 2), linea("SKU-2", 1))

	shipment, err := fx.uc.Create(ctx, dto.CreateShipmentRequest{OrderID: order.ID})
	require.NoError(t, err)
	assert.True(t, shipment.WeightKg.Equal(decimal.NewFromInt(6)), "peso = %s", shipment.WeightKg)
	assert.True(t, shipment.LongestSideCm.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, entity.ShipmentStatusPending, shipment.Status)
	assert.Equal(t, "BOG", shipment.Destination.Region)
}

func TestCreateRechazaSegundoEnvio(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))

	_, err := fx.uc.Create(ctx, dto.CreateShipmentRequest{OrderID: order.ID})
	require.NoError(t, err)
	_, err = fx.uc.Create(ctx, dto.CreateShipmentRequest{OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSelectCarrierRespetaElSLADeEntrega(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	// La barata promete 3 días; con SLA de 2 días debe ganar la rápida
	// aunque cueste más.
	fx.seedCarrier(t, "RAP", "Rápida", []string{"BOG"}, 10, 0.95, 1)
	fx.seedCarrier(t, "BAR", "Barata", []string{"BOG"}, 8, 0.80, 3)
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 2, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)

	out, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rápida", out.CarrierName)
	assert.Equal(t, entity.ShipmentStatusReady, out.Status)
	assert.NotEmpty(t, out.TrackingNumber)
}

func TestSelectCarrierSinElegiblesFalla(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	fx.seedCarrier(t, "MED", "Medellín Express", []string{"MED"}, 5, 0.9, 1)
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)

	_, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	assert.ErrorIs(t, err, domain.ErrNoEligibleCarrier)
}

func TestSelectCarrierExcluyePorPesoMaximo(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	liviana := fx.seedCarrier(t, "LIV", "Liviana", []string{"BOG"}, 1, 0.99, 1)
	liviana.MaxWeightKg = decimal.NewFromInt(3)
	require.NoError(t, fx.carriers.Update(ctx, liviana))
	fx.seedCarrier(t, "PES", "Pesada", []string{"BOG"}, 20, 0.90, 2)
	// 2 × 2.5 kg = 5 kg, por encima del máximo de la barata
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 2))
	shipment := fx.createShipment(t, order.ID)

	out, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pesada", out.CarrierName)
}

func TestSelectCarrierSoloSobreEnviosPendientes(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	fx.seedCarrier(t, "RAP", "Rápida", []string{"BOG"}, 10, 0.95, 1)
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)

	_, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	require.NoError(t, err)
	_, err = fx.uc.SelectCarrier(ctx, shipment.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestTrackingDespachaYEntregaElPedido(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	fx.seedCarrier(t, "RAP", "Rápida", []string{"BOG"}, 10, 0.95, 1)
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)
	_, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	require.NoError(t, err)

	out, err := fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{
		Status: "in_transit", Description: "recogido en bodega",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusInTransit, out.Status)
	fx.assertOrderStatus(t, order.ID, entity.OrderStatusShipped)

	out, err = fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{Status: "DELIVERED"})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusDelivered, out.Status)
	require.NotNil(t, out.DeliveredAt)
	assert.Len(t, out.Events, 2)
	fx.assertOrderStatus(t, order.ID, entity.OrderStatusClosed)
}

func TestTrackingSobreEntregadoFalla(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	fx.seedCarrier(t, "RAP", "Rápida", []string{"BOG"}, 10, 0.95, 1)
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)
	_, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	require.NoError(t, err)
	_, err = fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{Status: "IN_TRANSIT"})
	require.NoError(t, err)
	_, err = fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{Status: "DELIVERED"})
	require.NoError(t, err)

	_, err = fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{Status: "IN_TRANSIT"})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestTrackingYEtiquetaExigenTransportadora(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)

	_, err := fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{Status: "IN_TRANSIT"})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
	_, err = fx.uc.Label(ctx, shipment.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestEntregaFueraDeOrdenFalla(t *testing.T) {
	fx := newShippingFixture(t)
	ctx := context.Background()
	fx.seedCarrier(t, "RAP", "Rápida", []string{"BOG"}, 10, 0.95, 1)
	order := fx.seedOrder(t, entity.OrderStatusPacked, "BOG", 0, linea("SKU-1", 1))
	shipment := fx.createShipment(t, order.ID)
	_, err := fx.uc.SelectCarrier(ctx, shipment.ID)
	require.NoError(t, err)

	// entregar sin haber despachado
	_, err = fx.uc.AddTrackingEvent(ctx, shipment.ID, dto.TrackingEventRequest{Status: "DELIVERED"})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

// ── helpers ──

type fakeLabels struct{}

func (fakeLabels) ShippingLabel(*entity.Shipment, *entity.Order) ([]byte, error) {
	return []byte("%PDF-etiqueta"), nil
}

type shippingFixture struct {
	uc       *appship.UseCase
	orders   repository.OrderRepository
	carriers repository.CarrierRepository
	products repository.ProductRepository
}

func newShippingFixture(t *testing.T) *shippingFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	orderRepo := docstore.NewOrderRepository(store)
	carriers := docstore.NewCarrierRepository(store)
	products := docstore.NewProductRepository(store)
	shipments := docstore.NewShipmentRepository(store)
	ordersUC := orders.NewUseCase(orderRepo, products, zerolog.Nop())
	weights := shipdomain.Weights{
		Cost:        decimal.NewFromFloat(0.6),
		Reliability: decimal.NewFromFloat(0.4),
	}
	uc := appship.NewUseCase(shipments, carriers, orderRepo, ordersUC, products, fakeLabels{}, weights, zerolog.Nop())
	fx := &shippingFixture{uc: uc, orders: orderRepo, carriers: carriers, products: products}
	fx.seedCatalog(t)
	return fx
}

// seedCatalog registra SKU-1 (2.5 kg, 30x20x10) y SKU-2 (1 kg, 40x10x5).
func (fx *shippingFixture) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, fx.products.Create(ctx, &entity.Product{
		ID: uuid.New().String(), SKU: "SKU-1", Name: "Caja mediana", Active: true,
		WeightKg: decimal.NewFromFloat(2.5),
		LengthCm: decimal.NewFromInt(30), WidthCm: decimal.NewFromInt(20), HeightCm: decimal.NewFromInt(10),
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, fx.products.Create(ctx, &entity.Product{
		ID: uuid.New().String(), SKU: "SKU-2", Name: "Tubo largo", Active: true,
		WeightKg: decimal.NewFromInt(1),
		LengthCm: decimal.NewFromInt(40), WidthCm: decimal.NewFromInt(10), HeightCm: decimal.NewFromInt(5),
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (fx *shippingFixture) seedOrder(t *testing.T, status, region string, sla int, lines ...entity.OrderLine) *entity.Order {
	t.Helper()
	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		Reference:       "PED-" + uuid.New().String()[:6],
		Status:          status,
		Priority:        50,
		CutoffAt:        now.Add(6 * time.Hour),
		SLADeliveryDays: sla,
		Destination: entity.Destination{
			Name: "Cliente", Address: "Calle 1 # 2-3", City: "Bogotá", Region: region, Country: "CO",
		},
		Lines:     lines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, fx.orders.Create(context.Background(), order))
	return order
}

func (fx *shippingFixture) seedCarrier(t *testing.T, code, name string, areas []string, baseRate float64, onTime float64, transitDays int) *entity.Carrier {
	t.Helper()
	now := time.Now()
	carrier := &entity.Carrier{
		ID: uuid.New().String(), Code: code, Name: name, Active: true,
		ServiceAreas: areas,
		BaseRate:     decimal.NewFromFloat(baseRate),
		OnTimeRate:   decimal.NewFromFloat(onTime),
		TransitDays:  transitDays,
		CreatedAt:    now, UpdatedAt: now,
	}
	require.NoError(t, fx.carriers.Create(context.Background(), carrier))
	return carrier
}

func (fx *shippingFixture) createShipment(t *testing.T, orderID string) *dto.ShipmentResponse {
	t.Helper()
	shipment, err := fx.uc.Create(context.Background(), dto.CreateShipmentRequest{OrderID: orderID})
	require.NoError(t, err)
	return shipment
}

func (fx *shippingFixture) assertOrderStatus(t *testing.T, orderID, want string) {
	t.Helper()
	order, err := fx.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, want, order.Status)
}

func linea(sku string, qty int64) entity.OrderLine {
	q := decimal.NewFromInt(qty)
	return entity.OrderLine{SKU: sku, Quantity: q, AllocatedQty: q, PickedQty: q}
}
