package repository

import "encoding/json"

// SettingsRepository define el puerto de persistencia para los grupos de
// configuración. Los valores son documentos JSON libres; solo el grupo
// `general` está en uso.
type SettingsRepository interface {
	// Get devuelve el valor del grupo, o nil si no existe.
	Get(group string) (json.RawMessage, error)
	Save(group string, value json.RawMessage) error
	All() (map[string]json.RawMessage, error)
	Clear() error
}
