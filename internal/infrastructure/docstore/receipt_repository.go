package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación del puerto ReceiptRepository sobre el almacén documental.
type ReceiptRepo struct {
	store repository.DocumentStore
}

// NewReceiptRepository construye el adaptador de persistencia para recepciones.
func NewReceiptRepository(store repository.DocumentStore) *ReceiptRepo {
	return &ReceiptRepo{store: store}
}

// Create persiste una recepción nueva.
func (r *ReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	doc, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerReceipts, receipt.ID, doc)
}

// GetByID obtiene una recepción por ID; (nil, nil) si no existe.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	raw, err := r.store.Get(ctx, repository.ContainerReceipts, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	var e entity.Receipt
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento de la recepción.
func (r *ReceiptRepo) Update(ctx context.Context, receipt *entity.Receipt) error {
	doc, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerReceipts, receipt.ID, doc)
}

// List devuelve recepciones paginadas, más recientes primero.
func (r *ReceiptRepo) List(ctx context.Context, limit, offset int) ([]*entity.Receipt, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

func (r *ReceiptRepo) listAll(ctx context.Context) ([]*entity.Receipt, error) {
	docs, err := r.store.List(ctx, repository.ContainerReceipts)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	out := make([]*entity.Receipt, 0, len(docs))
	for _, raw := range docs {
		var e entity.Receipt
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal receipt: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
