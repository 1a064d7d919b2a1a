package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre el almacén documental.
type ProductRepo struct {
	store repository.DocumentStore
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(store repository.DocumentStore) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	doc, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerProducts, product.ID, doc)
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	raw, err := r.store.Get(ctx, repository.ContainerProducts, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	var p entity.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// GetBySKU busca un producto por su SKU; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

// Update reemplaza el documento del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	doc, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerProducts, product.ID, doc)
}

// List devuelve productos paginados, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, repository.ContainerProducts, id)
}

func (r *ProductRepo) listAll(ctx context.Context) ([]*entity.Product, error) {
	docs, err := r.store.List(ctx, repository.ContainerProducts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(docs))
	for _, raw := range docs {
		var p entity.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		out = append(out, &p)
	}
	return out, nil
}
