package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.PutAwayTaskRepository = (*PutAwayTaskRepo)(nil)

// PutAwayTaskRepo implementación del puerto PutAwayTaskRepository sobre el almacén documental.
type PutAwayTaskRepo struct {
	store repository.DocumentStore
}

// NewPutAwayTaskRepository construye el adaptador de persistencia para tareas de put-away.
func NewPutAwayTaskRepository(store repository.DocumentStore) *PutAwayTaskRepo {
	return &PutAwayTaskRepo{store: store}
}

// Create persiste una tarea de put-away nueva.
func (r *PutAwayTaskRepo) Create(ctx context.Context, task *entity.PutAwayTask) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal put-away task: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerPutAwayTasks, task.ID, doc)
}

// GetByID obtiene una tarea de put-away por ID; (nil, nil) si no existe.
func (r *PutAwayTaskRepo) GetByID(ctx context.Context, id string) (*entity.PutAwayTask, error) {
	raw, err := r.store.Get(ctx, repository.ContainerPutAwayTasks, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get put-away task: %w", err)
	}
	var e entity.PutAwayTask
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal put-away task: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la tarea de put-away.
func (r *PutAwayTaskRepo) Update(ctx context.Context, task *entity.PutAwayTask) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal put-away task: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerPutAwayTasks, task.ID, doc)
}

// ListByReceipt devuelve las tareas generadas por la recepción.
func (r *PutAwayTaskRepo) ListByReceipt(ctx context.Context, receiptID string) ([]*entity.PutAwayTask, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.ReceiptID == receiptID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListPendingBySKU devuelve las tareas pendientes del SKU (tránsito interno).
func (r *PutAwayTaskRepo) ListPendingBySKU(ctx context.Context, sku string) ([]*entity.PutAwayTask, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.SKU == sku && t.Status == entity.PutAwayStatusPending {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListByStatus devuelve las tareas cuyo estado está en la lista dada.
func (r *PutAwayTaskRepo) ListByStatus(ctx context.Context, statuses ...string) ([]*entity.PutAwayTask, error) {
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
	return out, nil
}

func (r *PutAwayTaskRepo) listAll(ctx context.Context) ([]*entity.PutAwayTask, error) {
	docs, err := r.store.List(ctx, repository.ContainerPutAwayTasks)
	if err != nil {
		return nil, fmt.Errorf("list put-away tasks: %w", err)
	}
	out := make([]*entity.PutAwayTask, 0, len(docs))
	for _, raw := range docs {
		var e entity.PutAwayTask
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal put-away task: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
