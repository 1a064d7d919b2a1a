package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.WaveRepository = (*WaveRepo)(nil)

// WaveRepo implementación del puerto WaveRepository sobre el almacén documental.
type WaveRepo struct {
	store repository.DocumentStore
}

// NewWaveRepository construye el adaptador de persistencia para olas.
func NewWaveRepository(store repository.DocumentStore) *WaveRepo {
	return &WaveRepo{store: store}
}

// Create persiste una ola nueva.
func (r *WaveRepo) Create(ctx context.Context, wave *entity.Wave) error {
	doc, err := json.Marshal(wave)
	if err != nil {
		return fmt.Errorf("marshal wave: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerWaves, wave.ID, doc)
}

// GetByID obtiene una ola por ID; (nil, nil) si no existe.
func (r *WaveRepo) GetByID(ctx context.Context, id string) (*entity.Wave, error) {
	raw, err := r.store.Get(ctx, repository.ContainerWaves, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wave: %w", err)
	}
	var e entity.Wave
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal wave: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la ola.
func (r *WaveRepo) Update(ctx context.Context, wave *entity.Wave) error {
	doc, err := json.Marshal(wave)
	if err != nil {
		return fmt.Errorf("marshal wave: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerWaves, wave.ID, doc)
}

// List devuelve olas paginadas, más recientes primero.
func (r *WaveRepo) List(ctx context.Context, limit, offset int) ([]*entity.Wave, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

func (r *WaveRepo) listAll(ctx context.Context) ([]*entity.Wave, error) {
	docs, err := r.store.List(ctx, repository.ContainerWaves)
	if err != nil {
		return nil, fmt.Errorf("list waves: %w", err)
	}
	out := make([]*entity.Wave, 0, len(docs))
	for _, raw := range docs {
		var e entity.Wave
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal wave: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
