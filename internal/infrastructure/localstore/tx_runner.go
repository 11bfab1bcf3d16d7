package localstore

import (
	"sync"

	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

// Repos conjunto de repositorios visto dentro de una sección crítica.
type Repos struct {
	Products   repository.ProductRepository
	Movements  repository.MovementRepository
	Categories repository.CategoryRepository
	Settings   repository.SettingsRepository
}

// TxRunner ejecuta callbacks multi-repositorio dentro de una sección
// crítica sobre todo el almacén. No hay base de datos externa, así que la
// "transacción" es un mutex de proceso: serializa mutaciones de dos pasos
// (movimiento + ajuste de cantidad) entre sí y frente a los snapshots de
// respaldo, que de otro modo podrían observar el estado intermedio.
//
// El mismo mutex protege los repositorios sueltos que se construyen con
// Mutex(); los repos que el runner pasa al callback no bloquean porque el
// runner ya sostiene el candado.
type TxRunner struct {
	mu sync.RWMutex
	tx Repos // repos sin bloqueo, válidos solo dentro del callback
}

// NewTxRunner construye el runner y los repos atados a la sección crítica.
func NewTxRunner(store kvstore.Store, hook *Hook) *TxRunner {
	r := &TxRunner{}
	r.tx = Repos{
		Products:   NewProductRepository(store, hook, nil),
		Movements:  NewMovementRepository(store, hook, nil),
		Categories: NewCategoryRepository(store, hook, nil),
		Settings:   NewSettingsRepository(store, hook, nil),
	}
	return r
}

// Mutex candado compartido para construir los repositorios sueltos.
func (r *TxRunner) Mutex() *sync.RWMutex { return &r.mu }

// Run ejecuta fn con acceso exclusivo de escritura sobre el almacén.
func (r *TxRunner) Run(fn func(tx Repos) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.tx)
}

// View ejecuta fn con acceso compartido de solo lectura: ninguna mutación
// puede intercalarse, así que fn observa un estado consistente de las
// cuatro colecciones.
func (r *TxRunner) View(fn func(tx Repos) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.tx)
}
