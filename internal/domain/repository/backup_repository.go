package repository

import "github.com/jhoicas/stockmaster-api/internal/domain/entity"

// BackupRepository define el puerto de persistencia del anillo de respaldos.
// La lista está ordenada del más antiguo al más reciente.
type BackupRepository interface {
	List() ([]entity.Snapshot, error)
	SaveAll(snapshots []entity.Snapshot) error
}
