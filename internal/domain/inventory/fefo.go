package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
)

// SortFEFO ordena los registros en secuencia de consumo FEFO:
// vencimiento ascendente (lotes sin fecha al final), luego fecha de
// recepción ascendente, luego código de ubicación ascendente. El orden es
// total, así que dos corridas sobre los mismos registros toman igual.
func SortFEFO(records []*entity.InventoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return fefoLess(records[i], records[j])
	})
}

func fefoLess(a, b *entity.InventoryRecord) bool {
	switch {
	case a.ExpiryDate != nil && b.ExpiryDate == nil:
		return true
	case a.ExpiryDate == nil && b.ExpiryDate != nil:
		return false
	case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
		return a.ExpiryDate.Before(*b.ExpiryDate)
	}
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.LocationCode < b.LocationCode
}

// Take es una toma planeada contra un registro concreto.
type Take struct {
	Record *entity.InventoryRecord
	Qty    decimal.Decimal
}

// PlanReservation recorre los registros en orden FEFO y arma las tomas que
// cubren la cantidad pedida. Devuelve las tomas y el faltante; si hay
// faltante y partial es false no se planea nada y el error es
// ErrInsufficientStock. No muta los registros.
func PlanReservation(records []*entity.InventoryRecord, qty decimal.Decimal, partial bool) ([]Take, decimal.Decimal, error) {
	if !qty.IsPositive() {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}

	sorted := make([]*entity.InventoryRecord, len(records))
	copy(sorted, records)
	SortFEFO(sorted)

	var takes []Take
	remaining := qty
	for _, rec := range sorted {
		if !remaining.IsPositive() {
			break
		}
		available := rec.Available()
		if !available.IsPositive() {
			continue
		}
		take := decimal.Min(available, remaining)
		takes = append(takes, Take{Record: rec, Qty: take})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() && !partial {
		return nil, qty, domain.ErrInsufficientStock
	}
	return takes, remaining, nil
}

// Totals agrega existencia, reserva y disponible sobre los registros dados.
func Totals(records []*entity.InventoryRecord) (onHand, allocated, available decimal.Decimal) {
	onHand, allocated = decimal.Zero, decimal.Zero
	for _, rec := range records {
		onHand = onHand.Add(rec.OnHand)
		allocated = allocated.Add(rec.Allocated)
	}
	return onHand, allocated, onHand.Sub(allocated)
}
