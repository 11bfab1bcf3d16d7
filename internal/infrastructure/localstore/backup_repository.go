package localstore

import (
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/kvstore"
)

var _ repository.BackupRepository = (*BackupRepo)(nil)

// BackupRepo persiste el anillo de respaldos bajo su propia clave. No
// notifica mutaciones: un respaldo no debe disparar otro respaldo.
//
// Una lista de respaldos ilegible se trata como vacía en lugar de
// ErrCorrupted: si el anillo mismo está dañado no hay nada que recuperar
// y bloquear la creación de respaldos nuevos solo empeora las cosas.
type BackupRepo struct {
	store kvstore.Store
}

// NewBackupRepository construye el adaptador de persistencia de respaldos.
func NewBackupRepository(store kvstore.Store) *BackupRepo {
	return &BackupRepo{store: store}
}

// List devuelve los respaldos del más antiguo al más reciente.
func (r *BackupRepo) List() ([]entity.Snapshot, error) {
	snapshots, err := readCollection[entity.Snapshot](r.store, KeyBackups)
	if err != nil {
		return []entity.Snapshot{}, nil
	}
	return snapshots, nil
}

// SaveAll reemplaza la lista completa de respaldos.
func (r *BackupRepo) SaveAll(snapshots []entity.Snapshot) error {
	return writeCollection(r.store, KeyBackups, snapshots)
}
