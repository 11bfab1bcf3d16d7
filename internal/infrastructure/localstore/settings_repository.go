package localstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación del puerto SettingsRepository: un único blob
// JSON objeto, con un documento libre por grupo.
type SettingsRepo struct {
	store kvstore.Store
	hook  *Hook
	mu    *sync.RWMutex
}

// NewSettingsRepository construye el adaptador de persistencia para configuración.
func NewSettingsRepository(store kvstore.Store, hook *Hook, mu *sync.RWMutex) *SettingsRepo {
	return &SettingsRepo{store: store, hook: hook, mu: mu}
}

func (r *SettingsRepo) read() (map[string]json.RawMessage, error) {
	raw, ok, err := r.store.Get(KeySettings)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return map[string]json.RawMessage{}, nil
	}
	var groups map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, fmt.Errorf("%w: colección %s ilegible: %v", domain.ErrCorrupted, KeySettings, err)
	}
	return groups, nil
}

func (r *SettingsRepo) write(groups map[string]json.RawMessage) error {
	b, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("%w: serializar %s: %v", domain.ErrStorage, KeySettings, err)
	}
	return r.store.Set(KeySettings, string(b))
}

// Get devuelve el valor del grupo, o nil si no existe.
func (r *SettingsRepo) Get(group string) (json.RawMessage, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	groups, err := r.read()
	if err != nil {
		return nil, err
	}
	return groups[group], nil
}

// Save guarda el valor del grupo y reescribe el blob completo.
func (r *SettingsRepo) Save(group string, value json.RawMessage) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	groups, err := r.read()
	if err != nil {
		return err
	}
	groups[group] = value
	if err := r.write(groups); err != nil {
		return err
	}
	r.hook.notify(KeySettings, ActionUpdate)
	return nil
}

// All devuelve todos los grupos de configuración.
func (r *SettingsRepo) All() (map[string]json.RawMessage, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return r.read()
}

// Clear elimina el blob completo (usado por importación).
func (r *SettingsRepo) Clear() error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if err := r.store.Delete(KeySettings); err != nil {
		return err
	}
	r.hook.notify(KeySettings, ActionClear)
	return nil
}
