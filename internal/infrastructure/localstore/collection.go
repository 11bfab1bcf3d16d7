// Package localstore implementa los puertos de repositorio sobre el
// almacén clave-valor: cada colección es un único blob JSON bajo una
// clave fija, leído y reescrito completo en cada operación.
package localstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

// Claves fijas del almacén.
const (
	KeyProducts   = "products"
	KeyMovements  = "movements"
	KeyCategories = "categories"
	KeySettings   = "settings"
	KeyBackups    = "stockmaster_backups"
)

// Acciones reportadas al hook de mutación.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionClear  = "clear"
)

// NotifyFunc recibe cada mutación confirmada (colección + acción).
type NotifyFunc func(collection, action string)

// Hook punto de enganche para los efectos de cada mutación (respaldo
// encolado, evento websocket). Se construye antes que los repositorios y
// se ata al destino real durante el cableado de la aplicación.
type Hook struct {
	mu sync.RWMutex
	fn NotifyFunc
}

// Bind fija el destino de las notificaciones.
func (h *Hook) Bind(fn NotifyFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fn = fn
}

func (h *Hook) notify(collection, action string) {
	if h == nil {
		return
	}
	h.mu.RLock()
	fn := h.fn
	h.mu.RUnlock()
	if fn != nil {
		fn(collection, action)
	}
}

// readCollection lee y decodifica la colección bajo key. Una clave ausente
// es una colección vacía; un blob ilegible o que no es lista se reporta
// como ErrCorrupted en lugar de enmascararse como vacío.
func readCollection[T any](s kvstore.Store, key string) ([]T, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: colección %s ilegible: %v", domain.ErrCorrupted, key, err)
	}
	return items, nil
}

// writeCollection serializa y persiste la colección completa bajo key.
func writeCollection[T any](s kvstore.Store, key string, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: serializar %s: %v", domain.ErrStorage, key, err)
	}
	return s.Set(key, string(b))
}
