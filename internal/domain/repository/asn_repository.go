package repository

import (
	"context"

	"github.com/invorya/wms-api/internal/domain/entity"
)

// ASNRepository define el puerto de persistencia para avisos de despacho.
type ASNRepository interface {
	Create(ctx context.Context, asn *entity.AdvanceShipNotice) error
	GetByID(ctx context.Context, id string) (*entity.AdvanceShipNotice, error)
	// GetByReference busca por número de aviso del proveedor; (nil, nil) si
	// no existe (los reenvíos del mismo aviso se detectan con esto).
	GetByReference(ctx context.Context, reference string) (*entity.AdvanceShipNotice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.AdvanceShipNotice, error)
}
