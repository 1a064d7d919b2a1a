package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// PickTaskRepository define el puerto de persistencia para tareas de picking.
type PickTaskRepository interface {
	Create(ctx context.Context, task *entity.PickTask) error
	GetByID(ctx context.Context, id string) (*entity.PickTask, error)
	// UpdateVersioned escribe la tarea solo si Version coincide con lo
	// persistido; en caso contrario devuelve ErrConcurrencyConflict. La
	// versión se incrementa al escribir.
	UpdateVersioned(ctx context.Context, task *entity.PickTask) error
	ListByWave(ctx context.Context, waveID string) ([]*entity.PickTask, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]*entity.PickTask, error)
}
