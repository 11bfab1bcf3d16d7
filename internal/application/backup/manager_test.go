package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/localstore"
)

// fixture arma un gestor sobre memfs con repositorios sueltos para
// sembrar y verificar estado desde las pruebas.
type fixture struct {
	store      *kvstore.FileStore
	manager    *Manager
	products   *localstore.ProductRepo
	movements  *localstore.MovementRepo
	categories *localstore.CategoryRepo
	settings   *localstore.SettingsRepo
	backups    *localstore.BackupRepo
}

func newFixture(t *testing.T, maxBackups int) *fixture {
	t.Helper()
	store, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	hook := &localstore.Hook{}
	tx := localstore.NewTxRunner(store, hook)
	backups := localstore.NewBackupRepository(store)
	return &fixture{
		store:      store,
		manager:    NewManager(tx, backups, maxBackups, DefaultIntervals(), zerolog.Nop()),
		products:   localstore.NewProductRepository(store, hook, tx.Mutex()),
		movements:  localstore.NewMovementRepository(store, hook, tx.Mutex()),
		categories: localstore.NewCategoryRepository(store, hook, tx.Mutex()),
		settings:   localstore.NewSettingsRepository(store, hook, tx.Mutex()),
		backups:    backups,
	}
}

func (f *fixture) seedProduct(t *testing.T, code, name string, quantity int) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Category:  "Ferramentas",
		Quantity:  quantity,
		Price:     decimal.NewFromFloat(19.9),
		MinStock:  entity.DefaultMinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.products.Add(p))
	return p
}

func (f *fixture) seedMovement(t *testing.T, productID string) *entity.Movement {
	t.Helper()
	m := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      entity.MovementTypeOut,
		Quantity:  1,
		Reason:    "venta",
		Date:      time.Now(),
	}
	require.NoError(t, f.movements.Add(m))
	return m
}

func TestManager_CreateBackupAgregaSnapshotVerificable(t *testing.T) {
	f := newFixture(t, 0)
	f.seedProduct(t, "A1", "Widget", 5)

	require.NoError(t, f.manager.CreateBackup())

	snapshots, err := f.manager.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 1, "cada llamada agrega exactamente un snapshot")
	assert.True(t, Verify(snapshots[0]),
		"el checksum recalculado sobre los datos guardados debe coincidir")
	require.Len(t, snapshots[0].Data.Products, 1)
	assert.Equal(t, "A1", snapshots[0].Data.Products[0].Code)
}

func TestManager_AnilloExpulsaElMasAntiguo(t *testing.T) {
	f := newFixture(t, 3)

	// Cada respaldo captura una cantidad distinta para distinguirlos.
	p := f.seedProduct(t, "A1", "Widget", 0)
	for i := 1; i <= 4; i++ {
		p.Quantity = i
		require.NoError(t, f.products.Update(p))
		require.NoError(t, f.manager.CreateBackup())
	}

	snapshots, err := f.manager.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 3, "el anillo nunca supera su capacidad")
	assert.Equal(t, 2, snapshots[0].Data.Products[0].Quantity,
		"el snapshot más antiguo (cantidad 1) debe haber sido expulsado")
	assert.Equal(t, 4, snapshots[2].Data.Products[0].Quantity)
}

func TestManager_RecoverOmiteElManipuladoYRestauraElSiguiente(t *testing.T) {
	f := newFixture(t, 0)

	a := f.seedProduct(t, "A1", "Widget", 5)
	require.NoError(t, f.manager.CreateBackup())

	f.seedProduct(t, "B2", "Gadget", 3)
	require.NoError(t, f.manager.CreateBackup())

	// Se altera el checksum del más reciente.
	snapshots, err := f.backups.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	snapshots[1].Checksum = "999999"
	require.NoError(t, f.backups.SaveAll(snapshots))

	assert.True(t, f.manager.Recover())

	products, err := f.products.GetAll()
	require.NoError(t, err)
	require.Len(t, products, 1, "debe restaurarse el estado del snapshot válido anterior")
	assert.Equal(t, a.ID, products[0].ID, "el id original se conserva en la restauración")
}

func TestManager_RecoverSinRespaldoValidoDejaElEstadoIntacto(t *testing.T) {
	f := newFixture(t, 0)
	f.seedProduct(t, "A1", "Widget", 5)

	require.NoError(t, f.manager.CreateBackup())
	snapshots, err := f.backups.List()
	require.NoError(t, err)
	snapshots[0].Checksum = "999999"
	require.NoError(t, f.backups.SaveAll(snapshots))

	assert.False(t, f.manager.Recover())

	products, err := f.products.GetAll()
	require.NoError(t, err)
	assert.Len(t, products, 1, "sin respaldo válido el estado vivo no se toca")
}

func TestManager_RecoverSinRespaldos(t *testing.T) {
	f := newFixture(t, 0)
	assert.False(t, f.manager.Recover())
}

func TestManager_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t, 0)

	require.NoError(t, f.categories.Add(&entity.Category{ID: uuid.New().String(), Name: "Bebidas"}))
	p := f.seedProduct(t, "A1", "Widget", 5)
	mv := f.seedMovement(t, p.ID)
	require.NoError(t, f.settings.Save("general", json.RawMessage(`{"currency":"BRL"}`)))

	data, err := f.manager.Export()
	require.NoError(t, err)

	// Se destruye el estado vivo y se reimporta el exportado.
	require.NoError(t, f.products.Clear())
	require.NoError(t, f.movements.Clear())
	require.NoError(t, f.categories.Clear())
	require.NoError(t, f.settings.Clear())
	require.NoError(t, f.manager.Import(data))

	products, err := f.products.GetAll()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)

	movements, err := f.movements.GetAll("")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, mv.ID, movements[0].ID)

	categories, err := f.categories.GetAll()
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	general, err := f.settings.Get("general")
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"BRL"}`, string(general))
}

func TestManager_ValidateAndRecoverRestauraBlobCorrupto(t *testing.T) {
	f := newFixture(t, 0)

	f.seedProduct(t, "A1", "Widget", 5)
	require.NoError(t, f.manager.CreateBackup())

	// La colección de productos deja de ser una lista.
	require.NoError(t, f.store.Set(localstore.KeyProducts, `{"no":"es una lista"}`))

	assert.True(t, f.manager.ValidateAndRecover(), "un blob ilegible debe disparar la restauración")

	products, err := f.products.GetAll()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A1", products[0].Code)
}

func TestManager_ValidateAndRecoverRestauraProductoSinCampos(t *testing.T) {
	f := newFixture(t, 0)

	f.seedProduct(t, "A1", "Widget", 5)
	require.NoError(t, f.manager.CreateBackup())

	// Lista bien formada pero con un elemento sin id ni nombre.
	require.NoError(t, f.store.Set(localstore.KeyProducts, `[{"quantity":3}]`))

	assert.True(t, f.manager.ValidateAndRecover())

	products, err := f.products.GetAll()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

func TestManager_ValidateAndRecoverEliminaHuerfanos(t *testing.T) {
	f := newFixture(t, 0)

	p := f.seedProduct(t, "A1", "Widget", 5)
	kept := f.seedMovement(t, p.ID)
	orphan := f.seedMovement(t, uuid.New().String())

	restored := f.manager.ValidateAndRecover()
	assert.False(t, restored, "los huérfanos se limpian sin restaurar respaldos")

	movements, err := f.movements.GetAll("")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, kept.ID, movements[0].ID)

	gone, err := f.movements.GetByID(orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestManager_CheckIntegrityNoTocaHuerfanos(t *testing.T) {
	f := newFixture(t, 0)

	p := f.seedProduct(t, "A1", "Widget", 5)
	f.seedMovement(t, p.ID)
	f.seedMovement(t, uuid.New().String())

	assert.False(t, f.manager.CheckIntegrity())

	movements, err := f.movements.GetAll("")
	require.NoError(t, err)
	assert.Len(t, movements, 2, "el chequeo ligero no elimina huérfanos")
}

func TestManager_ClearAllRespaldaAntesDeLimpiar(t *testing.T) {
	f := newFixture(t, 0)

	f.seedProduct(t, "A1", "Widget", 5)
	require.NoError(t, f.settings.Save("general", json.RawMessage(`{"currency":"BRL"}`)))

	require.NoError(t, f.manager.ClearAll())

	products, err := f.products.GetAll()
	require.NoError(t, err)
	assert.Empty(t, products)

	all, err := f.settings.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	snapshots, err := f.manager.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0].Data.Products, 1,
		"el respaldo previo a la limpieza conserva el estado")
}
