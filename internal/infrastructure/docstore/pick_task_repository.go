package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.PickTaskRepository = (*PickTaskRepo)(nil)

// PickTaskRepo implementación del puerto PickTaskRepository sobre el almacén documental.
type PickTaskRepo struct {
	store repository.DocumentStore
}

// NewPickTaskRepository construye el adaptador de persistencia para tareas de picking.
func NewPickTaskRepository(store repository.DocumentStore) *PickTaskRepo {
	return &PickTaskRepo{store: store}
}

// Create persiste una tarea de picking nueva.
func (r *PickTaskRepo) Create(ctx context.Context, task *entity.PickTask) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal pick task: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerPickTasks, task.ID, doc)
}

// GetByID obtiene una tarea de picking por ID; (nil, nil) si no existe.
func (r *PickTaskRepo) GetByID(ctx context.Context, id string) (*entity.PickTask, error) {
	raw, err := r.store.Get(ctx, repository.ContainerPickTasks, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick task: %w", err)
	}
	var e entity.PickTask
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal pick task: %w", err)
	}
	return &e, nil
}

// UpdateVersioned escribe la tarea solo si su Version coincide con la
// persistida; si otro actor escribió primero devuelve ErrConcurrencyConflict.
// La versión persistida queda incrementada.
func (r *PickTaskRepo) UpdateVersioned(ctx context.Context, task *entity.PickTask) error {
	current, err := r.GetByID(ctx, task.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("pick task %s: %w", task.ID, domain.ErrNotFound)
	}
	if current.Version != task.Version {
		return fmt.Errorf("pick task %s versión %d (esperada %d): %w",
			task.ID, current.Version, task.Version, domain.ErrConcurrencyConflict)
	}
	task.Version++
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal pick task: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerPickTasks, task.ID, doc)
}

// ListByWave devuelve las tareas de la ola ordenadas por código de ubicación.
func (r *PickTaskRepo) ListByWave(ctx context.Context, waveID string) ([]*entity.PickTask, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.WaveID == waveID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationCode < out[j].LocationCode })
	return out, nil
}

// ListByStatus devuelve las tareas cuyo estado está en la lista dada.
func (r *PickTaskRepo) ListByStatus(ctx context.Context, statuses ...string) ([]*entity.PickTask, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	out := all[:0]
	for _, t := range all {
		if wanted[t.Status] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PickTaskRepo) listAll(ctx context.Context) ([]*entity.PickTask, error) {
	docs, err := r.store.List(ctx, repository.ContainerPickTasks)
	if err != nil {
		return nil, fmt.Errorf("list pick tasks: %w", err)
	}
	out := make([]*entity.PickTask, 0, len(docs))
	for _, raw := range docs {
		var e entity.PickTask
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal pick task: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
