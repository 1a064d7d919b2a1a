package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre el almacén documental.
type LotRepo struct {
	store repository.DocumentStore
}

// NewLotRepository construye el adaptador de persistencia para lotes.
func NewLotRepository(store repository.DocumentStore) *LotRepo {
	return &LotRepo{store: store}
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	doc, err := json.Marshal(lot)
	if err != nil {
		return fmt.Errorf("marshal lot: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerLots, lot.ID, doc)
}

// GetByID obtiene un lote por ID; (nil, nil) si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	raw, err := r.store.Get(ctx, repository.ContainerLots, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	var e entity.Lot
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal lot: %w", err)
	}
	return &e, nil
}

// GetBySKUAndCode busca el lote del SKU con ese código; (nil, nil) si no existe.
func (r *LotRepo) GetBySKUAndCode(ctx context.Context, sku, code string) (*entity.Lot, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.SKU == sku && l.Code == code {
			return l, nil
		}
	}
	return nil, nil
}

// ListBySKU devuelve los lotes del SKU ordenados por recepción ascendente.
func (r *LotRepo) ListBySKU(ctx context.Context, sku string) ([]*entity.Lot, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, l := range all {
		if l.SKU == sku {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

// ListExpiringBefore devuelve lotes fechados que vencen antes del límite,
// ordenados por vencimiento ascendente.
func (r *LotRepo) ListExpiringBefore(ctx context.Context, limit time.Time) ([]*entity.Lot, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, l := range all {
		if l.ExpiryDate != nil && l.ExpiryDate.Before(limit) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

func (r *LotRepo) listAll(ctx context.Context) ([]*entity.Lot, error) {
	docs, err := r.store.List(ctx, repository.ContainerLots)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	out := make([]*entity.Lot, 0, len(docs))
	for _, raw := range docs {
		var e entity.Lot
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal lot: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
