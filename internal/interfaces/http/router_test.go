package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/application/analytics"
	"github.com/jhoicas/stockmaster-api/internal/application/backup"
	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/localstore"
	apphttp "github.com/jhoicas/stockmaster-api/internal/interfaces/http"
	"github.com/jhoicas/stockmaster-api/internal/ws"
)

// buildTestApp arma la API completa sobre un almacén en memoria, con el
// mismo cableado que cmd/api pero sin timers ni watcher.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	hook := &localstore.Hook{}
	tx := localstore.NewTxRunner(store, hook)
	mu := tx.Mutex()

	productUC := usecase.NewProductUseCase(localstore.NewProductRepository(store, hook, mu))
	categoryUC := usecase.NewCategoryUseCase(localstore.NewCategoryRepository(store, hook, mu))
	settingsUC := usecase.NewSettingsUseCase(localstore.NewSettingsRepository(store, hook, mu))
	require.NoError(t, settingsUC.EnsureDefaults())

	movements := localstore.NewMovementRepository(store, hook, mu)
	registerMovement := inventory.NewRegisterMovementUseCase(tx, movements)
	manager := backup.NewManager(tx, localstore.NewBackupRepository(store), 0, backup.DefaultIntervals(), zerolog.Nop())
	dashboardUC := analytics.NewDashboardUseCase(tx, settingsUC)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		SettingsUC:       settingsUC,
		RegisterMovement: registerMovement,
		DashboardUC:      dashboardUC,
		BackupManager:    manager,
		Hub:              ws.NewHub(zerolog.Nop()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, code string, quantity int) dto.ProductResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products/", fiber.Map{
		"code":     code,
		"name":     "Widget " + code,
		"category": "Ferramentas",
		"quantity": quantity,
		"price":    "19.9",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func TestProductsEndpoint_CicloCompleto(t *testing.T) {
	app := buildTestApp(t)

	created := createProduct(t, app, "A1", 5)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 10, created.MinStock, "mínimo por defecto")

	resp := doJSON(t, app, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "A1", got.Code)

	resp = doJSON(t, app, http.MethodGet, "/api/products/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	assert.Equal(t, 1, list.Total)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductsEndpoint_CodigoDuplicadoRetorna409(t *testing.T) {
	app := buildTestApp(t)
	createProduct(t, app, "A1", 5)

	resp := doJSON(t, app, http.MethodPost, "/api/products/", fiber.Map{
		"code":     "A1",
		"name":     "Otro",
		"category": "Ferramentas",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE", body.Code)
}

func TestProductsEndpoint_CuerpoInvalidoRetorna400(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/products/", fiber.Map{"name": "sin código"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.NotEmpty(t, body.Fields)
}

func TestMovementsEndpoint_SalidaAjustaStock(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "A1", 5)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": p.ID,
		"type":       "saida",
		"quantity":   3,
		"reason":     "venta",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 2, got.Quantity)

	resp = doJSON(t, app, http.MethodGet, "/api/movements?product_id="+p.ID, nil)
	movements := decode[dto.MovementListResponse](t, resp)
	assert.Equal(t, 1, movements.Total)
}

func TestMovementsEndpoint_StockInsuficienteRetorna422(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "A1", 2)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": p.ID,
		"type":       "saida",
		"quantity":   3,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestExportImportEndpoint_RoundTrip(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "A1", 5)

	resp := doJSON(t, app, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[dto.ExportDocument](t, resp)
	require.Len(t, doc.Products, 1)
	assert.False(t, doc.ExportDate.IsZero())

	resp = doJSON(t, app, http.MethodDelete, "/api/data", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/import", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.ImportResponse](t, resp)
	assert.True(t, result.Success)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "A1", got.Code, "la importación conserva los ids originales")
}

func TestBackupsEndpoint_CrearListarRecuperar(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "A1", 5)

	resp := doJSON(t, app, http.MethodPost, "/api/backups", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/backups", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.BackupListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.Items[0].Products)
	assert.NotEmpty(t, list.Items[0].Checksum)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/backups/recover", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recovered := decode[dto.RecoverResponse](t, resp)
	assert.True(t, recovered.Restored)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el producto borrado vuelve tras recuperar")
	resp.Body.Close()
}

func TestSettingsEndpoint_GuardarYLeer(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPut, "/api/settings/general", fiber.Map{
		"companyName":       "Mi Tienda",
		"lowStockThreshold": 5,
		"currency":          "USD",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/settings/general", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "Mi Tienda", body["companyName"])
}

func TestDashboardEndpoint_Summary(t *testing.T) {
	app := buildTestApp(t)
	createProduct(t, app, "A1", 5)
	createProduct(t, app, "B2", 0)

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 1, summary.OutOfStockCount)
	assert.Equal(t, 2, summary.LowStockCount, "ambos están por debajo del mínimo por defecto")
	assert.NotEmpty(t, summary.TotalStockValueText)
}
