package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/jhoicas/stockmaster-api/internal/application/analytics"
	"github.com/jhoicas/stockmaster-api/internal/application/backup"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/persist"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/localstore"
	httpRouter "github.com/jhoicas/stockmaster-api/internal/interfaces/http"
	"github.com/jhoicas/stockmaster-api/internal/ws"
	"github.com/jhoicas/stockmaster-api/pkg/config"
	"github.com/jhoicas/stockmaster-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("iniciando aplicación")

	// Almacén clave-valor: un archivo JSON por colección, con reintentos
	// de escritura según la política configurada.
	fileStore, err := kvstore.NewFileStore(afero.NewOsFs(), cfg.Storage.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén local")
	}
	store := kvstore.NewRetryStore(fileStore, kvstore.RetryPolicy{
		MaxAttempts: cfg.Storage.RetryAttempts,
		Delay:       cfg.Storage.RetryDelay,
	})

	hook := &localstore.Hook{}
	txRunner := localstore.NewTxRunner(store, hook)
	mu := txRunner.Mutex()
	productRepo := localstore.NewProductRepository(store, hook, mu)
	movementRepo := localstore.NewMovementRepository(store, hook, mu)
	categoryRepo := localstore.NewCategoryRepository(store, hook, mu)
	settingsRepo := localstore.NewSettingsRepository(store, hook, mu)
	backupRepo := localstore.NewBackupRepository(store)

	manager := backup.NewManager(txRunner, backupRepo, cfg.Backup.MaxBackups, backup.Intervals{
		Backup:       cfg.Backup.Interval,
		Integrity:    cfg.Backup.IntegrityInterval,
		Validation:   cfg.Backup.ValidationInterval,
		StartupDelay: cfg.Backup.StartupDelay,
	}, log)
	saveQueue := persist.NewSaveQueue(cfg.Backup.SaveDebounce, log)

	hub := ws.NewHub(log)
	go hub.Run()

	// Cada mutación confirmada encola un respaldo (la cola agrupa las
	// ráfagas) y avisa a los clientes conectados.
	hook.Bind(func(collection, action string) {
		saveQueue.Enqueue(manager.CreateBackup)
		hub.Publish(ws.ChangeEvent{Entity: collection, Action: action})
	})

	productUC := usecase.NewProductUseCase(productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, movementRepo)
	dashboardUC := analytics.NewDashboardUseCase(txRunner, settingsUC)

	if err := settingsUC.EnsureDefaults(); err != nil {
		log.Warn().Err(err).Msg("no se pudo sembrar la configuración por defecto")
	}

	// Validación inicial antes de aceptar tráfico.
	if manager.ValidateAndRecover() {
		log.Warn().Msg("el almacén estaba corrupto y fue restaurado desde respaldo")
	}
	manager.Start()

	// Observador del directorio de datos: cambios hechos por otro proceso
	// disparan una recarga en los clientes conectados.
	watcher, err := kvstore.NewWatcher(fileStore.Dir(), cfg.Storage.WatchWindow, log, func(key string) {
		hub.Publish(ws.ChangeEvent{Entity: "store", Action: "reload"})
	})
	if err != nil {
		log.Warn().Err(err).Msg("observador de archivos no disponible")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		SettingsUC:       settingsUC,
		RegisterMovement: registerMovementUC,
		DashboardUC:      dashboardUC,
		BackupManager:    manager,
		Hub:              hub,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Drenar la cola, detener timers y dejar un respaldo final.
	if watcher != nil {
		_ = watcher.Close()
	}
	hub.Stop()
	saveQueue.Close()
	manager.Stop()

	log.Info().Msg("aplicación detenida")
}
