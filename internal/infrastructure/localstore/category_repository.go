package localstore

import (
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre el
// almacén local. Un nombre duplicado devuelve ErrDuplicate, la misma
// política que el código de producto.
type CategoryRepo struct {
	store kvstore.Store
	hook  *Hook
	mu    *sync.RWMutex
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(store kvstore.Store, hook *Hook, mu *sync.RWMutex) *CategoryRepo {
	return &CategoryRepo{store: store, hook: hook, mu: mu}
}

// Add persiste una nueva categoría. Nombre duplicado → ErrDuplicate.
func (r *CategoryRepo) Add(category *entity.Category) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	categories, err := readCollection[entity.Category](r.store, KeyCategories)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.Name == category.Name {
			return domain.ErrDuplicate
		}
	}
	categories = append(categories, *category)
	if err := writeCollection(r.store, KeyCategories, categories); err != nil {
		return err
	}
	r.hook.notify(KeyCategories, ActionAdd)
	return nil
}

// GetAll devuelve todas las categorías; colección ausente → lista vacía.
func (r *CategoryRepo) GetAll() ([]entity.Category, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return readCollection[entity.Category](r.store, KeyCategories)
}

// GetByName obtiene una categoría por nombre único; (nil, nil) si no existe.
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	categories, err := readCollection[entity.Category](r.store, KeyCategories)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// Delete elimina por ID; un ID ausente es un no-op sin error.
func (r *CategoryRepo) Delete(id string) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	categories, err := readCollection[entity.Category](r.store, KeyCategories)
	if err != nil {
		return err
	}
	filtered := categories[:0]
	for _, c := range categories {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	if err := writeCollection(r.store, KeyCategories, filtered); err != nil {
		return err
	}
	r.hook.notify(KeyCategories, ActionDelete)
	return nil
}

// Clear elimina la colección completa (usado por importación).
func (r *CategoryRepo) Clear() error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if err := r.store.Delete(KeyCategories); err != nil {
		return err
	}
	r.hook.notify(KeyCategories, ActionClear)
	return nil
}
