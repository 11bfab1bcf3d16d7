// Package kvstore implementa la frontera de almacenamiento clave-valor:
// blobs de texto bajo claves con nombre, un archivo por clave.
package kvstore

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/stockmaster-api/internal/domain"
)

// Store puerto de almacenamiento clave-valor. Las lecturas distinguen
// "clave ausente" (ok=false, sin error) de un fallo real del medio.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
}

const fileExt = ".json"

// FileStore guarda cada clave como un archivo <dir>/<clave>.json sobre un
// afero.Fs (OS en producción, memfs en tests).
type FileStore struct {
	fs  afero.Fs
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore construye el almacén y asegura que el directorio exista.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: crear directorio %s: %v", domain.ErrStorage, dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// Dir directorio de datos (lo observa el Watcher).
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return s.dir + string(os.PathSeparator) + key + fileExt
}

// Get lee el blob de la clave. Una clave ausente no es un error.
func (s *FileStore) Get(key string) (string, bool, error) {
	b, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: leer %s: %v", domain.ErrStorage, key, err)
	}
	return string(b), true, nil
}

// Set escribe el blob vía archivo temporal + rename para no dejar un blob
// a medio escribir si el proceso muere durante la escritura.
func (s *FileStore) Set(key, value string) error {
	tmp := s.path(key) + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrStorage, key, err)
	}
	if err := s.fs.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("%w: publicar %s: %v", domain.ErrStorage, key, err)
	}
	return nil
}

// Delete elimina la clave; eliminar una clave ausente es un no-op.
func (s *FileStore) Delete(key string) error {
	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: eliminar %s: %v", domain.ErrStorage, key, err)
	}
	return nil
}

// Keys lista las claves presentes en el directorio de datos.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listar claves: %v", domain.ErrStorage, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), fileExt))
	}
	return keys, nil
}
