package backup

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/localstore"
)

// DefaultMaxBackups capacidad del anillo de respaldos.
const DefaultMaxBackups = 10

// Intervals periodicidad de las tareas del gestor.
type Intervals struct {
	Backup       time.Duration // respaldo completo
	Integrity    time.Duration // chequeo estructural ligero
	Validation   time.Duration // validación profunda con limpieza
	StartupDelay time.Duration // respaldo inicial tras el arranque
}

// DefaultIntervals intervalos de producción.
func DefaultIntervals() Intervals {
	return Intervals{
		Backup:       5 * time.Minute,
		Integrity:    30 * time.Second,
		Validation:   5 * time.Minute,
		StartupDelay: 2 * time.Second,
	}
}

// Manager protege contra corrupción y pérdida de datos: mantiene un
// historial acotado de snapshots verificados y restaura el más reciente
// válido cuando la validación detecta un almacén dañado.
type Manager struct {
	tx         *localstore.TxRunner
	backups    repository.BackupRepository
	log        zerolog.Logger
	maxBackups int
	intervals  Intervals
	now        func() time.Time

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewManager construye el gestor. maxBackups <= 0 usa la capacidad por defecto.
func NewManager(tx *localstore.TxRunner, backups repository.BackupRepository, maxBackups int, intervals Intervals, log zerolog.Logger) *Manager {
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	return &Manager{
		tx:         tx,
		backups:    backups,
		log:        log,
		maxBackups: maxBackups,
		intervals:  intervals,
		now:        time.Now,
		done:       make(chan struct{}),
	}
}

// Export lee las cuatro colecciones dentro de una vista consistente.
func (m *Manager) Export() (entity.SnapshotData, error) {
	var data entity.SnapshotData
	err := m.tx.View(func(tx localstore.Repos) error {
		var err error
		if data.Products, err = tx.Products.GetAll(); err != nil {
			return err
		}
		if data.Movements, err = tx.Movements.GetAll(""); err != nil {
			return err
		}
		if data.Categories, err = tx.Categories.GetAll(); err != nil {
			return err
		}
		data.Settings, err = tx.Settings.All()
		return err
	})
	return data, err
}

// CreateBackup agrega un snapshot al anillo y expulsa los más antiguos
// por encima de la capacidad.
func (m *Manager) CreateBackup() error {
	data, err := m.Export()
	if err != nil {
		return fmt.Errorf("exportar estado: %w", err)
	}
	sum, err := Checksum(data)
	if err != nil {
		return err
	}
	snapshots, err := m.backups.List()
	if err != nil {
		return err
	}
	snapshots = append(snapshots, entity.Snapshot{
		Timestamp: m.now(),
		Data:      data,
		Checksum:  sum,
	})
	if len(snapshots) > m.maxBackups {
		snapshots = snapshots[len(snapshots)-m.maxBackups:]
	}
	if err := m.backups.SaveAll(snapshots); err != nil {
		return err
	}
	m.log.Debug().Int("backups", len(snapshots)).Msg("respaldo creado")
	return nil
}

// List devuelve el anillo de respaldos del más antiguo al más reciente.
func (m *Manager) List() ([]entity.Snapshot, error) {
	return m.backups.List()
}

// Recover restaura el snapshot verificado más reciente. Devuelve false si
// no hay ninguno válido; el estado vivo queda intacto en ese caso. Los
// errores de snapshots individuales no se propagan: se pasa al siguiente.
func (m *Manager) Recover() bool {
	snapshots, err := m.backups.List()
	if err != nil || len(snapshots) == 0 {
		m.log.Warn().Msg("no hay respaldos disponibles para recuperar")
		return false
	}
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]
		if !Verify(snap) {
			m.log.Warn().Int("index", i).Time("timestamp", snap.Timestamp).
				Msg("respaldo con checksum inválido, se omite")
			continue
		}
		if err := m.Import(snap.Data); err != nil {
			m.log.Warn().Err(err).Int("index", i).Msg("falló la importación del respaldo")
			continue
		}
		m.log.Info().Time("timestamp", snap.Timestamp).Msg("estado restaurado desde respaldo")
		return true
	}
	m.log.Error().Msg("ningún respaldo pasó la verificación")
	return false
}

// Import reemplaza el estado completo: limpia las cuatro colecciones y
// reinserta en orden de dependencia (categorías → productos → movimientos
// → configuración). Los ids entrantes se conservan; solo se asignan
// nuevos a los elementos que no traen uno.
func (m *Manager) Import(data entity.SnapshotData) error {
	return m.tx.Run(func(tx localstore.Repos) error {
		if err := tx.Movements.Clear(); err != nil {
			return err
		}
		if err := tx.Products.Clear(); err != nil {
			return err
		}
		if err := tx.Categories.Clear(); err != nil {
			return err
		}
		if err := tx.Settings.Clear(); err != nil {
			return err
		}
		for _, c := range data.Categories {
			if c.ID == "" {
				c.ID = uuid.New().String()
			}
			if err := tx.Categories.Add(&c); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					m.log.Warn().Str("name", c.Name).Msg("categoría duplicada en importación, se omite")
					continue
				}
				return err
			}
		}
		now := m.now()
		for _, p := range data.Products {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			if p.UpdatedAt.IsZero() {
				p.UpdatedAt = now
			}
			if err := tx.Products.Add(&p); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					m.log.Warn().Str("code", p.Code).Msg("código duplicado en importación, se omite")
					continue
				}
				return err
			}
		}
		for _, mv := range data.Movements {
			if mv.ID == "" {
				mv.ID = uuid.New().String()
			}
			if err := tx.Movements.Add(&mv); err != nil {
				return err
			}
		}
		for group, value := range data.Settings {
			if err := tx.Settings.Save(group, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll respalda el estado actual y elimina las cuatro colecciones.
func (m *Manager) ClearAll() error {
	if err := m.CreateBackup(); err != nil {
		m.log.Warn().Err(err).Msg("no se pudo respaldar antes de limpiar")
	}
	return m.tx.Run(func(tx localstore.Repos) error {
		if err := tx.Movements.Clear(); err != nil {
			return err
		}
		if err := tx.Products.Clear(); err != nil {
			return err
		}
		if err := tx.Categories.Clear(); err != nil {
			return err
		}
		return tx.Settings.Clear()
	})
}

// ValidateAndRecover revisa la integridad del almacén. Una colección que
// no es lista o elementos sin sus campos estructurales disparan una
// restauración completa; los movimientos huérfanos (producto inexistente)
// se eliminan uno a uno sin restaurar. Devuelve true si hubo restauración.
func (m *Manager) ValidateAndRecover() bool {
	return m.validate(true)
}

// CheckIntegrity chequeo ligero periódico: misma detección estructural,
// sin limpieza de huérfanos.
func (m *Manager) CheckIntegrity() bool {
	return m.validate(false)
}

func (m *Manager) validate(cleanOrphans bool) bool {
	var products []entity.Product
	var movements []entity.Movement
	err := m.tx.View(func(tx localstore.Repos) error {
		var err error
		if products, err = tx.Products.GetAll(); err != nil {
			return err
		}
		if movements, err = tx.Movements.GetAll(""); err != nil {
			return err
		}
		if _, err = tx.Categories.GetAll(); err != nil {
			return err
		}
		_, err = tx.Settings.All()
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrCorrupted) {
			m.log.Warn().Err(err).Msg("estructura inválida detectada, intentando recuperación")
			return m.Recover()
		}
		m.log.Error().Err(err).Msg("falló la validación de datos")
		return false
	}

	for _, p := range products {
		if !p.Valid() {
			m.log.Warn().Str("id", p.ID).Msg("producto corrupto detectado, intentando recuperación")
			return m.Recover()
		}
	}
	for _, mv := range movements {
		if !mv.Valid() {
			m.log.Warn().Str("id", mv.ID).Msg("movimiento corrupto detectado, intentando recuperación")
			return m.Recover()
		}
	}

	if cleanOrphans {
		known := make(map[string]struct{}, len(products))
		for _, p := range products {
			known[p.ID] = struct{}{}
		}
		for _, mv := range movements {
			if _, ok := known[mv.ProductID]; ok {
				continue
			}
			m.log.Warn().Str("id", mv.ID).Str("productId", mv.ProductID).
				Msg("movimiento huérfano, se elimina")
			if err := m.tx.Run(func(tx localstore.Repos) error {
				return tx.Movements.Delete(mv.ID)
			}); err != nil {
				m.log.Error().Err(err).Str("id", mv.ID).Msg("no se pudo eliminar el huérfano")
			}
		}
	}
	return false
}

// Start lanza las tareas periódicas: respaldo inicial tras el arranque,
// respaldo completo, chequeo ligero y validación profunda. Los timers solo
// se cancelan en Stop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		startup := time.NewTimer(m.intervals.StartupDelay)
		defer startup.Stop()
		backupTick := time.NewTicker(m.intervals.Backup)
		defer backupTick.Stop()
		integrityTick := time.NewTicker(m.intervals.Integrity)
		defer integrityTick.Stop()
		validationTick := time.NewTicker(m.intervals.Validation)
		defer validationTick.Stop()

		for {
			select {
			case <-startup.C:
				if err := m.CreateBackup(); err != nil {
					m.log.Error().Err(err).Msg("respaldo inicial")
				}
			case <-backupTick.C:
				if err := m.CreateBackup(); err != nil {
					m.log.Error().Err(err).Msg("respaldo periódico")
				}
			case <-integrityTick.C:
				m.CheckIntegrity()
			case <-validationTick.C:
				m.ValidateAndRecover()
			case <-m.done:
				return
			}
		}
	}()
}

// Stop detiene las tareas periódicas y fuerza un respaldo final.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
		if err := m.CreateBackup(); err != nil {
			m.log.Error().Err(err).Msg("respaldo final")
		}
	})
}
