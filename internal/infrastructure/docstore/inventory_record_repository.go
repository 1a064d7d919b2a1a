package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación del puerto InventoryRecordRepository sobre el almacén documental.
type InventoryRecordRepo struct {
	store repository.DocumentStore
}

// NewInventoryRecordRepository construye el adaptador de persistencia para registros de inventario.
func NewInventoryRecordRepository(store repository.DocumentStore) *InventoryRecordRepo {
	return &InventoryRecordRepo{store: store}
}

// Create persiste un registro de inventario nuevo.
func (r *InventoryRecordRepo) Create(ctx context.Context, record *entity.InventoryRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal inventory record: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerInventoryRecords, record.ID, doc)
}

// GetByID obtiene un registro de inventario por ID; (nil, nil) si no existe.
func (r *InventoryRecordRepo) GetByID(ctx context.Context, id string) (*entity.InventoryRecord, error) {
	raw, err := r.store.Get(ctx, repository.ContainerInventoryRecords, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	var e entity.InventoryRecord
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal inventory record: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento del registro de inventario.
func (r *InventoryRecordRepo) Update(ctx context.Context, record *entity.InventoryRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal inventory record: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerInventoryRecords, record.ID, doc)
}

// Find busca la posición exacta (SKU, ubicación, lote); (nil, nil) si no existe.
func (r *InventoryRecordRepo) Find(ctx context.Context, sku, locationID, lotID string) (*entity.InventoryRecord, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range all {
		if rec.SKU == sku && rec.LocationID == locationID && rec.LotID == lotID {
			return rec, nil
		}
	}
	return nil, nil
}

// Remove elimina el registro (posición agotada y sin reservas).
func (r *InventoryRecordRepo) Remove(ctx context.Context, id string) error {
	return r.store.Remove(ctx, repository.ContainerInventoryRecords, id)
}

// ListBySKU devuelve todas las posiciones del SKU.
func (r *InventoryRecordRepo) ListBySKU(ctx context.Context, sku string) ([]*entity.InventoryRecord, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rec := range all {
		if rec.SKU == sku {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListByLocation devuelve todas las posiciones de la ubicación.
func (r *InventoryRecordRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rec := range all {
		if rec.LocationID == locationID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListAll devuelve todas las posiciones (reportes y exportaciones).
func (r *InventoryRecordRepo) ListAll(ctx context.Context) ([]*entity.InventoryRecord, error) {
	return r.listAll(ctx)
}

func (r *InventoryRecordRepo) listAll(ctx context.Context) ([]*entity.InventoryRecord, error) {
	docs, err := r.store.List(ctx, repository.ContainerInventoryRecords)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	out := make([]*entity.InventoryRecord, 0, len(docs))
	for _, raw := range docs {
		var e entity.InventoryRecord
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal inventory record: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
