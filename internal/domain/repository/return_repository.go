package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// ReturnRepository define el puerto de persistencia para autorizaciones de devolución.
type ReturnRepository interface {
	Create(ctx context.Context, ra *entity.ReturnAuthorization) error
	GetByID(ctx context.Context, id string) (*entity.ReturnAuthorization, error)
	Update(ctx context.Context, ra *entity.ReturnAuthorization) error
	List(ctx context.Context, limit, offset int) ([]*entity.ReturnAuthorization, error)
}
