package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.ASNRepository = (*ASNRepo)(nil)

// ASNRepo implementación del puerto ASNRepository sobre el almacén documental.
type ASNRepo struct {
	store repository.DocumentStore
}

// NewASNRepository construye el adaptador de persistencia para avisos de despacho.
func NewASNRepository(store repository.DocumentStore) *ASNRepo {
	return &ASNRepo{store: store}
}

// Create persiste un aviso de despacho nuevo.
func (r *ASNRepo) Create(ctx context.Context, asn *entity.AdvanceShipNotice) error {
	doc, err := json.Marshal(asn)
	if err != nil {
		return fmt.Errorf("marshal asn: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerASNs, asn.ID, doc)
}

// GetByID obtiene un aviso de despacho por ID; (nil, nil) si no existe.
func (r *ASNRepo) GetByID(ctx context.Context, id string) (*entity.AdvanceShipNotice, error) {
	raw, err := r.store.Get(ctx, repository.ContainerASNs, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asn: %w", err)
	}
	var e entity.AdvanceShipNotice
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal asn: %w", err)
	}
	return &e, nil
}

// List devuelve avisos de despacho paginados, más recientes primero.
func (r *ASNRepo) List(ctx context.Context, limit, offset int) ([]*entity.AdvanceShipNotice, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// GetByReference busca el aviso por número del proveedor; (nil, nil) si no existe.
func (r *ASNRepo) GetByReference(ctx context.Context, reference string) (*entity.AdvanceShipNotice, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range all {
		if n.Reference == reference {
			return n, nil
		}
	}
	return nil, nil
}

func (r *ASNRepo) listAll(ctx context.Context) ([]*entity.AdvanceShipNotice, error) {
	docs, err := r.store.List(ctx, repository.ContainerASNs)
	if err != nil {
		return nil, fmt.Errorf("list asns: %w", err)
	}
	out := make([]*entity.AdvanceShipNotice, 0, len(docs))
	for _, raw := range docs {
		var e entity.AdvanceShipNotice
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal asn: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
