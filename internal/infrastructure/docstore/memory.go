// Package docstore implementa el almacén documental y los adaptadores de
// repositorio tipados que los use cases consumen. La variante en memoria
// respalda el modo demo y las pruebas; la variante PostgreSQL vive en el
// paquete postgres.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*MemoryStore)(nil)

// MemoryStore es el almacén documental en memoria: un mapa de contenedores
// a documentos indexados por id. Seguro para uso concurrente.
type MemoryStore struct {
	mu         sync.RWMutex
	containers map[string]map[string]json.RawMessage
}

// NewMemoryStore crea un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{containers: make(map[string]map[string]json.RawMessage)}
}

// CreateContainer garantiza el contenedor; crear dos veces no es error.
func (s *MemoryStore) CreateContainer(_ context.Context, container string) error {
	if container == "" {
		return fmt.Errorf("create container: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.containers[container]; !ok {
		s.containers[container] = make(map[string]json.RawMessage)
	}
	return nil
}

// Add agrega un documento nuevo; falla con ErrDuplicate si el id ya existe.
func (s *MemoryStore) Add(_ context.Context, container, id string, doc json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.containers[container]
	if !ok {
		return fmt.Errorf("contenedor %s: %w", container, domain.ErrNotFound)
	}
	if _, exists := docs[id]; exists {
		return fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrDuplicate)
	}
	docs[id] = cloneDoc(doc)
	return nil
}

// Get devuelve el documento; ErrNotFound si no existe.
func (s *MemoryStore) Get(_ context.Context, container, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.containers[container]
	if !ok {
		return nil, fmt.Errorf("contenedor %s: %w", container, domain.ErrNotFound)
	}
	doc, exists := docs[id]
	if !exists {
		return nil, fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrNotFound)
	}
	return cloneDoc(doc), nil
}

// Update reemplaza el documento; ErrNotFound si no existe.
func (s *MemoryStore) Update(_ context.Context, container, id string, doc json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.containers[container]
	if !ok {
		return fmt.Errorf("contenedor %s: %w", container, domain.ErrNotFound)
	}
	if _, exists := docs[id]; !exists {
		return fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrNotFound)
	}
	docs[id] = cloneDoc(doc)
	return nil
}

// Remove elimina el documento; ErrNotFound si no existe.
func (s *MemoryStore) Remove(_ context.Context, container, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.containers[container]
	if !ok {
		return fmt.Errorf("contenedor %s: %w", container, domain.ErrNotFound)
	}
	if _, exists := docs[id]; !exists {
		return fmt.Errorf("documento %s/%s: %w", container, id, domain.ErrNotFound)
	}
	delete(docs, id)
	return nil
}

// List devuelve todos los documentos del contenedor, sin orden garantizado.
func (s *MemoryStore) List(_ context.Context, container string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.containers[container]
	if !ok {
		return nil, fmt.Errorf("contenedor %s: %w", container, domain.ErrNotFound)
	}
	out := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		out = append(out, cloneDoc(doc))
	}
	return out, nil
}

// cloneDoc copia el documento para que el llamador no comparta memoria con
// el almacén.
func cloneDoc(doc json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out
}
