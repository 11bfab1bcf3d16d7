package localstore

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

// newTestStore almacén sobre memfs para las pruebas.
func newTestStore(t *testing.T) *kvstore.FileStore {
	t.Helper()
	store, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return store
}

func newProduct(code, name string, quantity int) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Category:  "Ferramentas",
		Quantity:  quantity,
		Price:     decimal.NewFromFloat(10.0),
		MinStock:  entity.DefaultMinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductRepo_AddYGetByID(t *testing.T) {
	repo := NewProductRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	p := newProduct("A1", "Widget", 5)
	require.NoError(t, repo.Add(p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "el producto recién agregado debe encontrarse")
	assert.Equal(t, p.Code, got.Code)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Quantity, got.Quantity)
	assert.True(t, p.Price.Equal(got.Price))
}

func TestProductRepo_CodigoDuplicadoNoPersiste(t *testing.T) {
	repo := NewProductRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	require.NoError(t, repo.Add(newProduct("A1", "Widget", 5)))
	err := repo.Add(newProduct("A1", "Otro", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1, "el duplicado no debe quedar persistido")
}

func TestProductRepo_UpdateRefrescaDatos(t *testing.T) {
	repo := NewProductRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	p := newProduct("A1", "Widget", 5)
	require.NoError(t, repo.Add(p))

	before := p.UpdatedAt
	p.Quantity = 2
	p.UpdatedAt = before.Add(time.Millisecond)
	require.NoError(t, repo.Update(p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.UpdatedAt.After(before), "updatedAt debe avanzar estrictamente")
}

func TestProductRepo_UpdateInexistente(t *testing.T) {
	repo := NewProductRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})
	err := repo.Update(newProduct("A1", "Widget", 5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_DeleteElimina(t *testing.T) {
	repo := NewProductRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	p := newProduct("A1", "Widget", 5)
	require.NoError(t, repo.Add(p))
	require.NoError(t, repo.Delete(p.ID))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "el producto borrado no debe encontrarse")

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	// Borrar un id ausente es un no-op sin error.
	assert.NoError(t, repo.Delete("no-existe"))
}

func TestProductRepo_ColeccionAusenteEsVacia(t *testing.T) {
	repo := NewProductRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductRepo_BlobIlegibleReportaCorrupcion(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeyProducts, `{"no":"es una lista"}`))

	repo := NewProductRepository(store, &Hook{}, &sync.RWMutex{})
	_, err := repo.GetAll()
	assert.ErrorIs(t, err, domain.ErrCorrupted,
		"un blob que no es lista debe reportarse como corrupción, no como colección vacía")
}

func TestProductRepo_HookRecibeMutaciones(t *testing.T) {
	hook := &Hook{}
	var mu sync.Mutex
	var events []string
	hook.Bind(func(collection, action string) {
		mu.Lock()
		events = append(events, collection+":"+action)
		mu.Unlock()
	})
	repo := NewProductRepository(newTestStore(t), hook, &sync.RWMutex{})

	p := newProduct("A1", "Widget", 5)
	require.NoError(t, repo.Add(p))
	p.Quantity = 1
	require.NoError(t, repo.Update(p))
	require.NoError(t, repo.Delete(p.ID))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"products:add", "products:update", "products:delete"}, events)
}
