package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// CarrierRepository define el puerto de persistencia para transportadoras.
type CarrierRepository interface {
	Create(ctx context.Context, carrier *entity.Carrier) error
	GetByID(ctx context.Context, id string) (*entity.Carrier, error)
	GetByCode(ctx context.Context, code string) (*entity.Carrier, error)
	Update(ctx context.Context, carrier *entity.Carrier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Carrier, error)
	ListActive(ctx context.Context) ([]*entity.Carrier, error)
}
