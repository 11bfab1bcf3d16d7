package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// ExportDocument documento de intercambio de estado completo. Los tags
// siguen el formato de archivo persistido (camelCase, exportDate);
// Import acepta el mismo documento.
type ExportDocument struct {
	Products   []entity.Product           `json:"products"`
	Movements  []entity.Movement          `json:"movements"`
	Categories []entity.Category          `json:"categories"`
	Settings   map[string]json.RawMessage `json:"settings"`
	ExportDate time.Time                  `json:"exportDate"`
}

// Data convierte el documento al estado de snapshot interno.
func (d ExportDocument) Data() entity.SnapshotData {
	return entity.SnapshotData{
		Products:   d.Products,
		Movements:  d.Movements,
		Categories: d.Categories,
		Settings:   d.Settings,
	}
}

// NewExportDocument arma el documento desde un snapshot con la fecha dada.
func NewExportDocument(data entity.SnapshotData, at time.Time) ExportDocument {
	return ExportDocument{
		Products:   data.Products,
		Movements:  data.Movements,
		Categories: data.Categories,
		Settings:   data.Settings,
		ExportDate: at,
	}
}

// BackupInfo metadatos de un respaldo (sin el estado completo).
type BackupInfo struct {
	Timestamp  time.Time `json:"timestamp"`
	Checksum   string    `json:"checksum"`
	Products   int       `json:"products"`
	Movements  int       `json:"movements"`
	Categories int       `json:"categories"`
}

// BackupListResponse lista de metadatos de respaldos, del más antiguo al
// más reciente.
type BackupListResponse struct {
	Items []BackupInfo `json:"items"`
	Total int          `json:"total"`
}

// RecoverResponse resultado de una recuperación.
type RecoverResponse struct {
	Restored bool `json:"restored"`
}

// ImportResponse resultado de una importación.
type ImportResponse struct {
	Success bool `json:"success"`
}
