package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// AllocationRepository define el puerto de persistencia para reservas vivas.
type AllocationRepository interface {
	Create(ctx context.Context, allocation *entity.Allocation) error
	GetByID(ctx context.Context, id string) (*entity.Allocation, error)
	Update(ctx context.Context, allocation *entity.Allocation) error
	Remove(ctx context.Context, id string) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Allocation, error)
}
