package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// WaveRepository define el puerto de persistencia para olas de picking.
type WaveRepository interface {
	Create(ctx context.Context, wave *entity.Wave) error
	GetByID(ctx context.Context, id string) (*entity.Wave, error)
	Update(ctx context.Context, wave *entity.Wave) error
	List(ctx context.Context, limit, offset int) ([]*entity.Wave, error)
}
