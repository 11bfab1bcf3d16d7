package localstore

import (
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre el almacén
// local. Con mu nil el repositorio no bloquea: lo usa el TxRunner, que ya
// sostiene la sección crítica.
type ProductRepo struct {
	store kvstore.Store
	hook  *Hook
	mu    *sync.RWMutex
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(store kvstore.Store, hook *Hook, mu *sync.RWMutex) *ProductRepo {
	return &ProductRepo{store: store, hook: hook, mu: mu}
}

// Add persiste un nuevo producto. Código duplicado → ErrDuplicate y la
// colección queda intacta.
func (r *ProductRepo) Add(product *entity.Product) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	products, err := readCollection[entity.Product](r.store, KeyProducts)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Code == product.Code {
			return domain.ErrDuplicate
		}
	}
	products = append(products, *product)
	if err := writeCollection(r.store, KeyProducts, products); err != nil {
		return err
	}
	r.hook.notify(KeyProducts, ActionAdd)
	return nil
}

// GetAll devuelve todos los productos; colección ausente → lista vacía.
func (r *ProductRepo) GetAll() ([]entity.Product, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return readCollection[entity.Product](r.store, KeyProducts)
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	products, err := readCollection[entity.Product](r.store, KeyProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

// GetByCode obtiene un producto por código único; (nil, nil) si no existe.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	products, err := readCollection[entity.Product](r.store, KeyProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Code == code {
			return &products[i], nil
		}
	}
	return nil, nil
}

// Update reemplaza el producto con el mismo ID; ErrNotFound si no existe.
func (r *ProductRepo) Update(product *entity.Product) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	products, err := readCollection[entity.Product](r.store, KeyProducts)
	if err != nil {
		return err
	}
	idx := -1
	for i := range products {
		if products[i].ID == product.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.ErrNotFound
	}
	products[idx] = *product
	if err := writeCollection(r.store, KeyProducts, products); err != nil {
		return err
	}
	r.hook.notify(KeyProducts, ActionUpdate)
	return nil
}

// Delete elimina por ID; un ID ausente es un no-op sin error.
func (r *ProductRepo) Delete(id string) error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	products, err := readCollection[entity.Product](r.store, KeyProducts)
	if err != nil {
		return err
	}
	filtered := products[:0]
	for _, p := range products {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	if err := writeCollection(r.store, KeyProducts, filtered); err != nil {
		return err
	}
	r.hook.notify(KeyProducts, ActionDelete)
	return nil
}

// Clear elimina la colección completa (usado por importación).
func (r *ProductRepo) Clear() error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if err := r.store.Delete(KeyProducts); err != nil {
		return err
	}
	r.hook.notify(KeyProducts, ActionClear)
	return nil
}
