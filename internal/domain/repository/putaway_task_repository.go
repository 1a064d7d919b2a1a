package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// PutAwayTaskRepository define el puerto de persistencia para tareas de put-away.
type PutAwayTaskRepository interface {
	Create(ctx context.Context, task *entity.PutAwayTask) error
	GetByID(ctx context.Context, id string) (*entity.PutAwayTask, error)
	Update(ctx context.Context, task *entity.PutAwayTask) error
	ListByReceipt(ctx context.Context, receiptID string) ([]*entity.PutAwayTask, error)
	// ListPendingBySKU alimenta la cantidad en tránsito interno del SKU.
	ListPendingBySKU(ctx context.Context, sku string) ([]*entity.PutAwayTask, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]*entity.PutAwayTask, error)
}
