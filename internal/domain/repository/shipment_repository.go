package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// ShipmentRepository define el puerto de persistencia para envíos.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Shipment, error)
}
