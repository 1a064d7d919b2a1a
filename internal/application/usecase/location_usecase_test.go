package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/usecase"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
)

func TestListAvailable_CalculaOcupadoYCupoPorUbicacion(t *testing.T) {
	ctx := context.Background()
	fx := newLocationFixture(t)
	a := fx.seedLocation(t, "A-01", entity.LocationTypePick, 20, true)
	b := fx.seedLocation(t, "B-01", entity.LocationTypeBulk, 50, true)
	fx.seedLocation(t, "MUELLE-1", entity.LocationTypeReceiving, 0, true)
	fx.seedOnHand(t, a, "SKU-1", 8)
	fx.seedOnHand(t, b, "SKU-2", 10)
	fx.seedPendingPutAway(t, b, 15)

	out, err := fx.uc.ListAvailable(ctx, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, out.Items, 2, "el muelle de recepción no es almacenable")
	assert.Equal(t, "A-01", out.Items[0].Location.Code)
	assert.True(t, out.Items[0].Occupied.Equal(dec(8)))
	assert.True(t, out.Items[0].Available.Equal(dec(12)))
	assert.Equal(t, "B-01", out.Items[1].Location.Code)
	assert.True(t, out.Items[1].Occupied.Equal(dec(25)),
		"el put-away pendiente hacia la ubicación ya compromete cupo")
	assert.True(t, out.Items[1].Available.Equal(dec(25)))
}

func TestListAvailable_FiltraPorEspacioMinimo(t *testing.T) {
	ctx := context.Background()
	fx := newLocationFixture(t)
	a := fx.seedLocation(t, "A-01", entity.LocationTypePick, 20, true)
	b := fx.seedLocation(t, "B-01", entity.LocationTypeBulk, 50, true)
	fx.seedLocation(t, "C-01", entity.LocationTypeBulk, 0, true)
	fx.seedOnHand(t, a, "SKU-1", 15)
	fx.seedOnHand(t, b, "SKU-2", 10)

	out, err := fx.uc.ListAvailable(ctx, dec(10))
	require.NoError(t, err)
	require.Len(t, out.Items, 2, "con 5 libres la A-01 no alcanza el mínimo")
	assert.Equal(t, "B-01", out.Items[0].Location.Code)
	assert.Equal(t, "C-01", out.Items[1].Location.Code)
	assert.True(t, out.Items[1].Unlimited, "capacidad cero significa sin límite declarado")
	assert.True(t, out.Items[1].Available.IsZero())
}

func TestListAvailable_LlenaOInactivaNoAparece(t *testing.T) {
	ctx := context.Background()
	fx := newLocationFixture(t)
	llena := fx.seedLocation(t, "A-01", entity.LocationTypePick, 10, true)
	fx.seedLocation(t, "B-01", entity.LocationTypeBulk, 50, false)
	fx.seedOnHand(t, llena, "SKU-1", 10)

	out, err := fx.uc.ListAvailable(ctx, decimal.Zero)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestListAvailable_MinimoNegativoInvalido(t *testing.T) {
	fx := newLocationFixture(t)

	_, err := fx.uc.ListAvailable(context.Background(), dec(-1))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ── helpers ──

type locationFixture struct {
	uc        *usecase.LocationUseCase
	locations repository.LocationRepository
	records   repository.InventoryRecordRepository
	putaways  repository.PutAwayTaskRepository
}

func newLocationFixture(t *testing.T) *locationFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	locations := docstore.NewLocationRepository(store)
	records := docstore.NewInventoryRecordRepository(store)
	putaways := docstore.NewPutAwayTaskRepository(store)
	uc := usecase.NewLocationUseCase(locations, records, putaways, zerolog.Nop())
	return &locationFixture{uc: uc, locations: locations, records: records, putaways: putaways}
}

func (fx *locationFixture) seedLocation(t *testing.T, code, locType string, capacity int64, active bool) *entity.Location {
	t.Helper()
	now := time.Now()
	loc := &entity.Location{
		ID: uuid.New().String(), Code: code, Type: locType,
		Capacity: decimal.NewFromInt(capacity), Active: active,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, fx.locations.Create(context.Background(), loc))
	return loc
}

func (fx *locationFixture) seedOnHand(t *testing.T, loc *entity.Location, sku string, qty int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, fx.records.Create(context.Background(), &entity.InventoryRecord{
		ID: uuid.New().String(), SKU: sku, LocationID: loc.ID, LocationCode: loc.Code,
		OnHand: decimal.NewFromInt(qty), ReceivedAt: now, UpdatedAt: now,
	}))
}

func (fx *locationFixture) seedPendingPutAway(t *testing.T, loc *entity.Location, qty int64) {
	t.Helper()
	require.NoError(t, fx.putaways.Create(context.Background(), &entity.PutAwayTask{
		ID: uuid.New().String(), ReceiptID: "r1", SKU: "SKU-X",
		Quantity: decimal.NewFromInt(qty), ToLocationID: loc.ID, ToLocationCode: loc.Code,
		Status: entity.PutAwayStatusPending, CreatedAt: time.Now(),
	}))
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
