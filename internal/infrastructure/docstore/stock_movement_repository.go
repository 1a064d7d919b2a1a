package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository sobre el almacén documental.
type StockMovementRepo struct {
	store repository.DocumentStore
}

// NewStockMovementRepository construye el adaptador de persistencia para movimientos.
func NewStockMovementRepository(store repository.DocumentStore) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

// Create persiste un movimiento nuevo.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	doc, err := json.Marshal(movement)
	if err != nil {
		return fmt.Errorf("marshal stock movement: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerStockMovements, movement.ID, doc)
}

// ListBySKU devuelve los movimientos del SKU, más recientes primero.
func (r *StockMovementRepo) ListBySKU(ctx context.Context, sku string, limit, offset int) ([]*entity.StockMovement, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, m := range all {
		if m.SKU == sku {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	from, to := window(len(out), limit, offset)
	return out[from:to], nil
}

func (r *StockMovementRepo) listAll(ctx context.Context) ([]*entity.StockMovement, error) {
	docs, err := r.store.List(ctx, repository.ContainerStockMovements)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	out := make([]*entity.StockMovement, 0, len(docs))
	for _, raw := range docs {
		var e entity.StockMovement
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal stock movement: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
