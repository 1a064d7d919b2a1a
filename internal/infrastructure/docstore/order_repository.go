package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre el almacén documental.
type OrderRepo struct {
	store repository.DocumentStore
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(store repository.DocumentStore) *OrderRepo {
	return &OrderRepo{store: store}
}

// Create persiste un pedido nuevo.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerOrders, order.ID, doc)
}

// GetByID obtiene un pedido por ID; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	raw, err := r.store.Get(ctx, repository.ContainerOrders, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	var e entity.Order
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento del pedido.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerOrders, order.ID, doc)
}

// List devuelve pedidos paginados, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// ListByStatus devuelve los pedidos cuyo estado está en la lista dada.
func (r *OrderRepo) ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Order, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	out := all[:0]
	for _, o := range all {
		if wanted[o.Status] {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepo) listAll(ctx context.Context) ([]*entity.Order, error) {
	docs, err := r.store.List(ctx, repository.ContainerOrders)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*entity.Order, 0, len(docs))
	for _, raw := range docs {
		var e entity.Order
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
