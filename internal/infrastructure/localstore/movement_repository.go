package localstore

import (
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre el
// almacén local. Los movimientos solo se agregan o eliminan, nunca se
// actualizan.
type MovementRepo struct {
	store kvstore.Store
	hook  *Hook
	mu    *sync.RWMutex
}

// NewMovementRepository construye el adaptador de persistencia para movimientos.
func NewMovementRepository(store kvstore.Store, hook *Hook, mu *sync.RWMutex) *MovementRepo {
	return &MovementRepo{store: store, hook: hook, mu: mu}
}

// Add persiste un nuevo movimiento al final de la colección.
func (r *MovementRepo) Add(movement *entity.Movement) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	movements, err := readCollection[entity.Movement](r.store, KeyMovements)
	if err != nil {
		return err
	}
	movements = append(movements, *movement)
	if err := writeCollection(r.store, KeyMovements, movements); err != nil {
		return err
	}
	r.hook.notify(KeyMovements, ActionAdd)
	return nil
}

// GetAll devuelve los movimientos; con productID no vacío filtra por producto.
func (r *MovementRepo) GetAll(productID string) ([]entity.Movement, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	movements, err := readCollection[entity.Movement](r.store, KeyMovements)
	if err != nil {
		return nil, err
	}
	if productID == "" {
		return movements, nil
	}
	filtered := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		if m.ProductID == productID {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// GetByID obtiene un movimiento por ID; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	movements, err := readCollection[entity.Movement](r.store, KeyMovements)
	if err != nil {
		return nil, err
	}
	for i := range movements {
		if movements[i].ID == id {
			return &movements[i], nil
		}
	}
	return nil, nil
}

// Delete elimina por ID; un ID ausente es un no-op sin error. Lo usa la
// limpieza de movimientos huérfanos del gestor de respaldos.
func (r *MovementRepo) Delete(id string) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	movements, err := readCollection[entity.Movement](r.store, KeyMovements)
	if err != nil {
		return err
	}
	filtered := movements[:0]
	for _, m := range movements {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	if err := writeCollection(r.store, KeyMovements, filtered); err != nil {
		return err
	}
	r.hook.notify(KeyMovements, ActionDelete)
	return nil
}

// Clear elimina la colección completa (usado por importación).
func (r *MovementRepo) Clear() error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if err := r.store.Delete(KeyMovements); err != nil {
		return err
	}
	r.hook.notify(KeyMovements, ActionClear)
	return nil
}
