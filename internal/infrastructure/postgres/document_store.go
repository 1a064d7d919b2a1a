package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// Los nombres de contenedor se interpolan como nombre de tabla; solo se
// aceptan identificadores simples en minúscula.
var validContainer = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// DocumentStore almacén documental sobre PostgreSQL: una tabla por
// contenedor con el documento en una columna JSONB.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore construye el almacén sobre el pool dado.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// CreateContainer garantiza la tabla del contenedor. Es idempotente.
func (s *DocumentStore) CreateContainer(ctx context.Context, container string) error {
	if err := checkContainer(container); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
	    id         TEXT PRIMARY KEY,
	    doc        JSONB NOT NULL,
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, container)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create container %s: %w", container, err)
	}
	return nil
}

// Add inserta un documento nuevo; ErrDuplicate si el id ya existe.
func (s *DocumentStore) Add(ctx context.Context, container, id string, doc json.RawMessage) error {
	if err := checkContainer(container); err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, container)
	if _, err := s.pool.Exec(ctx, query, id, doc); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrDuplicate)
		}
		return fmt.Errorf("add %s/%s: %w", container, id, err)
	}
	return nil
}

// Get devuelve el documento; ErrNotFound si no existe.
func (s *DocumentStore) Get(ctx context.Context, container, id string) (json.RawMessage, error) {
	if err := checkContainer(container); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, container)
	var doc json.RawMessage
	err := s.pool.QueryRow(ctx, query, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", container, id, err)
	}
	return doc, nil
}

// Update reemplaza el documento completo; ErrNotFound si no existe.
func (s *DocumentStore) Update(ctx context.Context, container, id string, doc json.RawMessage) error {
	if err := checkContainer(container); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = now() WHERE id = $1`, container)
	tag, err := s.pool.Exec(ctx, query, id, doc)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", container, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrNotFound)
	}
	return nil
}

// Remove elimina el documento; ErrNotFound si no existe.
func (s *DocumentStore) Remove(ctx context.Context, container, id string) error {
	if err := checkContainer(container); err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, container)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", container, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrNotFound)
	}
	return nil
}

// List devuelve todos los documentos del contenedor, sin orden garantizado.
func (s *DocumentStore) List(ctx context.Context, container string) ([]json.RawMessage, error) {
	if err := checkContainer(container); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s`, container)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", container, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc json.RawMessage
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("list %s scan: %w", container, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func checkContainer(container string) error {
	if !validContainer.MatchString(container) {
		return fmt.Errorf("contenedor %q: %w", container, domain.ErrInvalidInput)
	}
	return nil
}
