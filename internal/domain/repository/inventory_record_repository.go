package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// InventoryRecordRepository define el puerto de persistencia para las
// posiciones de inventario (SKU, ubicación, lote).
type InventoryRecordRepository interface {
	Create(ctx context.Context, record *entity.InventoryRecord) error
	GetByID(ctx context.Context, id string) (*entity.InventoryRecord, error)
	// Find busca la posición exacta; devuelve (nil, nil) si no existe.
	Find(ctx context.Context, sku, locationID, lotID string) (*entity.InventoryRecord, error)
	Update(ctx context.Context, record *entity.InventoryRecord) error
	Remove(ctx context.Context, id string) error
	ListBySKU(ctx context.Context, sku string) ([]*entity.InventoryRecord, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error)
	ListAll(ctx context.Context) ([]*entity.InventoryRecord, error)
}
