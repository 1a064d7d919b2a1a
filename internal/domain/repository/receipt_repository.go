package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para recepciones.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	List(ctx context.Context, limit, offset int) ([]*entity.Receipt, error)
}
