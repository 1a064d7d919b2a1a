package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la
// auditoría de movimientos del ledger (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListBySKU devuelve los movimientos del SKU, más recientes primero.
	ListBySKU(ctx context.Context, sku string, limit, offset int) ([]*entity.StockMovement, error)
}
