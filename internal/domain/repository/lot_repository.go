package repository

import (
	"context"
	"time"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para Lot (DIP).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	GetBySKUAndCode(ctx context.Context, sku, code string) (*entity.Lot, error)
	ListBySKU(ctx context.Context, sku string) ([]*entity.Lot, error)
	// ListExpiringBefore devuelve lotes fechados cuyo vencimiento cae antes
	// del límite, ordenados por vencimiento ascendente.
	ListExpiringBefore(ctx context.Context, limit time.Time) ([]*entity.Lot, error)
}
