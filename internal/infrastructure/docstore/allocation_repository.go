package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación del puerto AllocationRepository sobre el almacén documental.
type AllocationRepo struct {
	store repository.DocumentStore
}

// NewAllocationRepository construye el adaptador de persistencia para reservas.
func NewAllocationRepository(store repository.DocumentStore) *AllocationRepo {
	return &AllocationRepo{store: store}
}

// Create persiste una reserva nueva.
func (r *AllocationRepo) Create(ctx context.Context, allocation *entity.Allocation) error {
	doc, err := json.Marshal(allocation)
	if err != nil {
		return fmt.Errorf("marshal allocation: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerAllocations, allocation.ID, doc)
}

// GetByID obtiene una reserva por ID; (nil, nil) si no existe.
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.Allocation, error) {
	raw, err := r.store.Get(ctx, repository.ContainerAllocations, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	var e entity.Allocation
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal allocation: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la reserva.
func (r *AllocationRepo) Update(ctx context.Context, allocation *entity.Allocation) error {
	doc, err := json.Marshal(allocation)
	if err != nil {
		return fmt.Errorf("marshal allocation: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerAllocations, allocation.ID, doc)
}

// Remove elimina la reserva consumida o liberada por completo.
func (r *AllocationRepo) Remove(ctx context.Context, id string) error {
	return r.store.Remove(ctx, repository.ContainerAllocations, id)
}

// ListByOrder devuelve las reservas vivas del pedido en orden de creación.
func (r *AllocationRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Allocation, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, a := range all {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AllocationRepo) listAll(ctx context.Context) ([]*entity.Allocation, error) {
	docs, err := r.store.List(ctx, repository.ContainerAllocations)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	out := make([]*entity.Allocation, 0, len(docs))
	for _, raw := range docs {
		var e entity.Allocation
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal allocation: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
