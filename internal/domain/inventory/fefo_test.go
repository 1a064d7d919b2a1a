package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/inventory"
)

func TestSortFEFO_VencimientoMasProntoPrimero(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("A-02", venc(2026, 12, 1), fecha(2026, 1, 10), 10, 0),
		buildRecord("A-01", venc(2026, 9, 1), fecha(2026, 1, 20), 10, 0),
	}

	inventory.SortFEFO(recs)

	assert.Equal(t, "A-01", recs[0].LocationCode,
		"el lote que vence primero debe ir de primero aunque llegó después")
}

func TestSortFEFO_SinVencimientoVaAlFinal(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("B-01", nil, fecha(2025, 5, 1), 10, 0),
		buildRecord("B-02", venc(2027, 1, 1), fecha(2026, 2, 1), 10, 0),
	}

	inventory.SortFEFO(recs)

	assert.Equal(t, "B-02", recs[0].LocationCode,
		"un lote fechado siempre va antes que uno sin vencimiento")
	assert.Equal(t, "B-01", recs[1].LocationCode)
}

func TestSortFEFO_EmpateVencimientoDesempataPorRecepcion(t *testing.T) {
	mismoVenc := venc(2026, 10, 15)
	recs := []*entity.InventoryRecord{
		buildRecord("C-02", mismoVenc, fecha(2026, 3, 5), 10, 0),
		buildRecord("C-01", mismoVenc, fecha(2026, 3, 1), 10, 0),
	}

	inventory.SortFEFO(recs)

	assert.Equal(t, "C-01", recs[0].LocationCode,
		"a igual vencimiento gana la recepción más antigua")
}

func TestSortFEFO_EmpateTotalDesempataPorUbicacion(t *testing.T) {
	mismoVenc := venc(2026, 10, 15)
	recep := fecha(2026, 3, 1)
	recs := []*entity.InventoryRecord{
		buildRecord("D-09", mismoVenc, recep, 10, 0),
		buildRecord("D-01", mismoVenc, recep, 10, 0),
		buildRecord("D-05", mismoVenc, recep, 10, 0),
	}

	inventory.SortFEFO(recs)

	assert.Equal(t, []string{"D-01", "D-05", "D-09"},
		[]string{recs[0].LocationCode, recs[1].LocationCode, recs[2].LocationCode},
		"el código de ubicación ascendente es el último desempate")
}

func TestPlanReservation_CubreConUnSoloRegistro(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("A-01", venc(2026, 9, 1), fecha(2026, 1, 1), 100, 0),
	}

	takes, remaining, err := inventory.PlanReservation(recs, qty(40), false)

	require.NoError(t, err)
	require.Len(t, takes, 1)
	assert.True(t, takes[0].Qty.Equal(qty(40)))
	assert.True(t, remaining.IsZero(), "no debe quedar faltante")
}

func TestPlanReservation_RepartesEntreVariosRegistrosEnOrdenFEFO(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("Z-01", venc(2027, 1, 1), fecha(2026, 1, 1), 50, 0),
		buildRecord("A-01", venc(2026, 6, 1), fecha(2026, 1, 1), 30, 0),
	}

	takes, remaining, err := inventory.PlanReservation(recs, qty(40), false)

	require.NoError(t, err)
	require.Len(t, takes, 2)
	assert.Equal(t, "A-01", takes[0].Record.LocationCode, "primero agota el lote que vence antes")
	assert.True(t, takes[0].Qty.Equal(qty(30)))
	assert.Equal(t, "Z-01", takes[1].Record.LocationCode)
	assert.True(t, takes[1].Qty.Equal(qty(10)))
	assert.True(t, remaining.IsZero())
}

func TestPlanReservation_DescuentaLoYaReservado(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("A-01", venc(2026, 6, 1), fecha(2026, 1, 1), 30, 25),
	}

	_, _, err := inventory.PlanReservation(recs, qty(10), false)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"solo hay 5 disponibles: 30 en mano menos 25 reservadas")
}

func TestPlanReservation_InsuficienteSinParcialNoPlaneaNada(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("A-01", venc(2026, 6, 1), fecha(2026, 1, 1), 10, 0),
	}

	takes, remaining, err := inventory.PlanReservation(recs, qty(25), false)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, takes, "todo-o-nada: sin cobertura total no hay tomas")
	assert.True(t, remaining.Equal(qty(25)))
}

func TestPlanReservation_InsuficienteConParcialDevuelveFaltante(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("A-01", venc(2026, 6, 1), fecha(2026, 1, 1), 10, 0),
	}

	takes, remaining, err := inventory.PlanReservation(recs, qty(25), true)

	require.NoError(t, err)
	require.Len(t, takes, 1)
	assert.True(t, takes[0].Qty.Equal(qty(10)))
	assert.True(t, remaining.Equal(qty(15)), "el faltante debe ser 15")
}

func TestPlanReservation_CantidadNoPositivaEsInvalida(t *testing.T) {
	_, _, err := inventory.PlanReservation(nil, decimal.Zero, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanReservation_NoMutaLosRegistros(t *testing.T) {
	rec := buildRecord("A-01", venc(2026, 6, 1), fecha(2026, 1, 1), 100, 0)

	_, _, err := inventory.PlanReservation([]*entity.InventoryRecord{rec}, qty(40), false)

	require.NoError(t, err)
	assert.True(t, rec.Allocated.IsZero(), "planear no debe tocar el registro")
}

func TestTotals_SumaYDisponible(t *testing.T) {
	recs := []*entity.InventoryRecord{
		buildRecord("A-01", nil, fecha(2026, 1, 1), 100, 40),
		buildRecord("A-02", nil, fecha(2026, 1, 1), 50, 10),
	}

	onHand, allocated, available := inventory.Totals(recs)

	assert.True(t, onHand.Equal(qty(150)))
	assert.True(t, allocated.Equal(qty(50)))
	assert.True(t, available.Equal(qty(100)))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func buildRecord(locCode string, expiry *time.Time, receivedAt time.Time, onHand, allocated int64) *entity.InventoryRecord {
	return &entity.InventoryRecord{
		ID:           "rec-" + locCode,
		SKU:          "SKU-001",
		LocationCode: locCode,
		ExpiryDate:   expiry,
		ReceivedAt:   receivedAt,
		OnHand:       decimal.NewFromInt(onHand),
		Allocated:    decimal.NewFromInt(allocated),
	}
}

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func venc(y int, m time.Month, d int) *time.Time {
	t := fecha(y, m, d)
	return &t
}

func qty(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
