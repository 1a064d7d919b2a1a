package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos de salida.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Order, error)
}
