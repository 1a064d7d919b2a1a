package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre el almacén documental.
type UserRepo struct {
	store repository.DocumentStore
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(store repository.DocumentStore) *UserRepo {
	return &UserRepo{store: store}
}

// Create persiste un usuario nuevo.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return r.store.Add(ctx, repository.ContainerUsers, user.ID, doc)
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	raw, err := r.store.Get(ctx, repository.ContainerUsers, id)
	if err != nil {
		if esNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	var e entity.User
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &e, nil
}

// Update reemplaza el documento del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return r.store.Update(ctx, repository.ContainerUsers, user.ID, doc)
}

// List devuelve usuarios paginados, más recientes primero.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from, to := window(len(all), limit, offset)
	return all[from:to], nil
}

// GetByEmail busca el usuario por correo; (nil, nil) si no está registrado.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) listAll(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.store.List(ctx, repository.ContainerUsers)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*entity.User, 0, len(docs))
	for _, raw := range docs {
		var e entity.User
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		out = append(out, &e)
	}
	return out, nil
}
