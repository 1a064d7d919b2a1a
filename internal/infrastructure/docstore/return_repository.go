package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación del puerto ReturnRepository sobre el almacén documental.
type ReturnRepo struct {
	store repository.DocumentStore
}

// NewReturnRepository construye el adaptador de persistencia para autorizaciones de devolución.
func NewReturnRepository(store repository.DocumentStore) *ReturnRepo {
	return &ReturnRepo{store: store}
}

// Create persiste una autorización de devolución nueva.
func (r *ReturnRepo) Create(ctx context.Context, ra *entity.ReturnAuthorization) error {
	doc, err := json.Marshal(ra)
	if err != nil {
		return fmt.Errorf("marshal return: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerReturns, ra.ID, doc)
}

// GetByID obtiene una autorización de devolución por ID; (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.ReturnAuthorization, error) {
	raw, err := r.store.Get(ctx, repository.ContainerReturns, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	var e entity.ReturnAuthorization
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal return: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la autorización de devolución.
func (r *ReturnRepo) Update(ctx context.Context, ra *entity.ReturnAuthorization) error {
	doc, err := json.Marshal(ra)
	if err != nil {
		return fmt.Errorf("marshal return: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerReturns, ra.ID, doc)
}

// List devuelve autorizaciones de devolución paginadas, más recientes primero.
func (r *ReturnRepo) List(ctx context.Context, limit, offset int) ([]*entity.ReturnAuthorization, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

func (r *ReturnRepo) listAll(ctx context.Context) ([]*entity.ReturnAuthorization, error) {
	docs, err := r.store.List(ctx, repository.ContainerReturns)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	out := make([]*entity.ReturnAuthorization, 0, len(docs))
	for _, raw := range docs {
		var e entity.ReturnAuthorization
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal return: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
