package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/analytics"
	"github.com/jhoicas/stockmaster-api/internal/application/backup"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	SettingsUC       *usecase.SettingsUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	DashboardUC      *analytics.DashboardUseCase
	BackupManager    *backup.Manager
	Hub              *ws.Hub
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Delete("/:id", categoryHandler.Delete)

	// Inventory movements
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	api.Post("/inventory/movements", inventoryHandler.RegisterMovement)
	api.Get("/movements", inventoryHandler.ListMovements)

	// Settings
	settings := api.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/:group", settingsHandler.Get)
	settings.Put("/:group", settingsHandler.Save)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.Summary)

	// Backup, export/import y limpieza total
	backupHandler := NewBackupHandler(deps.BackupManager)
	api.Get("/export", backupHandler.Export)
	api.Post("/import", backupHandler.Import)
	api.Get("/backups", backupHandler.List)
	api.Post("/backups", backupHandler.CreateBackup)
	api.Post("/backups/recover", backupHandler.Recover)
	api.Delete("/data", backupHandler.ClearAll)

	// Feed de cambios: la UI recarga al recibir un evento
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(deps.Hub.Handler))
}
