package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.CarrierRepository = (*CarrierRepo)(nil)

// CarrierRepo implementación del puerto CarrierRepository sobre el almacén documental.
type CarrierRepo struct {
	store repository.DocumentStore
}

// NewCarrierRepository construye el adaptador de persistencia para transportadoras.
func NewCarrierRepository(store repository.DocumentStore) *CarrierRepo {
	return &CarrierRepo{store: store}
}

// Create persiste una transportadora nueva.
func (r *CarrierRepo) Create(ctx context.Context, carrier *entity.Carrier) error {
	doc, err := json.Marshal(carrier)
	if err != nil {
		return fmt.Errorf("marshal carrier: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerCarriers, carrier.ID, doc)
}

// GetByID obtiene una transportadora por ID; (nil, nil) si no existe.
func (r *CarrierRepo) GetByID(ctx context.Context, id string) (*entity.Carrier, error) {
	raw, err := r.store.Get(ctx, repository.ContainerCarriers, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get carrier: %w", err)
	}
	var e entity.Carrier
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal carrier: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la transportadora.
func (r *CarrierRepo) Update(ctx context.Context, carrier *entity.Carrier) error {
	doc, err := json.Marshal(carrier)
	if err != nil {
		return fmt.Errorf("marshal carrier: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerCarriers, carrier.ID, doc)
}

// List devuelve transportadoras paginadas, más recientes primero.
func (r *CarrierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Carrier, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// GetByCode busca la transportadora por su código; (nil, nil) si no existe.
func (r *CarrierRepo) GetByCode(ctx context.Context, code string) (*entity.Carrier, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

// ListActive devuelve las transportadoras activas ordenadas por código.
func (r *CarrierRepo) ListActive(ctx context.Context) ([]*entity.Carrier, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, c := range all {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *CarrierRepo) listAll(ctx context.Context) ([]*entity.Carrier, error) {
	docs, err := r.store.List(ctx, repository.ContainerCarriers)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	out := make([]*entity.Carrier, 0, len(docs))
	for _, raw := range docs {
		var e entity.Carrier
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal carrier: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
