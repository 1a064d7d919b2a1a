package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre el almacén documental.
type PurchaseOrderRepo struct {
	store repository.DocumentStore
}

// NewPurchaseOrderRepository construye el adaptador de persistencia para órdenes de compra.
func NewPurchaseOrderRepository(store repository.DocumentStore) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{store: store}
}

// Create persiste una orden de compra nueva.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	doc, err := json.Marshal(po)
	if err != nil {
		return fmt.Errorf("marshal purchase order: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerPurchaseOrders, po.ID, doc)
}

// GetByID obtiene una orden de compra por ID; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	raw, err := r.store.Get(ctx, repository.ContainerPurchaseOrders, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	var e entity.PurchaseOrder
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal purchase order: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la orden de compra.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	doc, err := json.Marshal(po)
	if err != nil {
		return fmt.Errorf("marshal purchase order: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerPurchaseOrders, po.ID, doc)
}

// List devuelve órdenes de compra paginadas, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// GetByNumber busca la orden de compra por su número; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, number string) (*entity.PurchaseOrder, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, po := range all {
		if po.Number == number {
			return po, nil
		}
	}
	return nil, nil
}

func (r *PurchaseOrderRepo) listAll(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	docs, err := r.store.List(ctx, repository.ContainerPurchaseOrders)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	out := make([]*entity.PurchaseOrder, 0, len(docs))
	for _, raw := range docs {
		var e entity.PurchaseOrder
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal purchase order: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
