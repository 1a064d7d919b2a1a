package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre el almacén documental.
type LocationRepo struct {
	store repository.DocumentStore
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(store repository.DocumentStore) *LocationRepo {
	return &LocationRepo{store: store}
}

// Create persiste una ubicación nueva.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	doc, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerLocations, location.ID, doc)
}

// GetByID obtiene una ubicación por ID; (nil, nil) si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	raw, err := r.store.Get(ctx, repository.ContainerLocations, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	var l entity.Location
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("unmarshal location: %w", err)
	}
	return &l, nil
}

// GetByCode busca una ubicación por su código; (nil, nil) si no existe.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, nil
}

// Update reemplaza el documento de la ubicación.
func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	doc, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerLocations, location.ID, doc)
}

// List devuelve ubicaciones paginadas ordenadas por código.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// ListByType devuelve las ubicaciones del tipo dado ordenadas por código.
func (r *LocationRepo) ListByType(ctx context.Context, locType string) ([]*entity.Location, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, l := range all {
		if l.Type == locType {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *LocationRepo) listAll(ctx context.Context) ([]*entity.Location, error) {
	docs, err := r.store.List(ctx, repository.ContainerLocations)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	out := make([]*entity.Location, 0, len(docs))
	for _, raw := range docs {
		var l entity.Location
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("unmarshal location: %w", err)
		}
		out = append(out, &l)
	}
	return out, nil
}
