package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación del puerto ShipmentRepository sobre el almacén documental.
type ShipmentRepo struct {
	store repository.DocumentStore
}

// NewShipmentRepository construye el adaptador de persistencia para envíos.
func NewShipmentRepository(store repository.DocumentStore) *ShipmentRepo {
	return &ShipmentRepo{store: store}
}

// Create persiste un envío nuevo.
func (r *ShipmentRepo) Create(ctx context.Context, shipment *entity.Shipment) error {
	doc, err := json.Marshal(shipment)
	if err != nil {
		return fmt.Errorf("marshal shipment: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerShipments, shipment.ID, doc)
}

// GetByID obtiene un envío por ID; (nil, nil) si no existe.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	raw, err := r.store.Get(ctx, repository.ContainerShipments, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	var e entity.Shipment
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal shipment: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento del envío.
func (r *ShipmentRepo) Update(ctx context.Context, shipment *entity.Shipment) error {
	doc, err := json.Marshal(shipment)
	if err != nil {
		return fmt.Errorf("marshal shipment: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerShipments, shipment.ID, doc)
}

// List devuelve envíos paginados, más recientes primero.
func (r *ShipmentRepo) List(ctx context.Context, limit, offset int) ([]*entity.Shipment, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// ListByOrder devuelve los envíos del pedido.
func (r *ShipmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		if s.OrderID == orderID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ShipmentRepo) listAll(ctx context.Context) ([]*entity.Shipment, error) {
	docs, err := r.store.List(ctx, repository.ContainerShipments)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	out := make([]*entity.Shipment, 0, len(docs))
	for _, raw := range docs {
		var e entity.Shipment
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal shipment: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
