package entity

import (
	"encoding/json"
	"time"
)

// SnapshotData estado completo de las cuatro colecciones, tal como se
// exporta y como se guarda dentro de cada respaldo.
type SnapshotData struct {
	Products   []Product                  `json:"products"`
	Movements  []Movement                 `json:"movements"`
	Categories []Category                 `json:"categories"`
	Settings   map[string]json.RawMessage `json:"settings"`
}

// Snapshot un respaldo verificable: estado + marca de tiempo + checksum.
//
// Ciclo de vida: recién escrito (sin verificar) → verificado durante un
// escaneo de recuperación → expulsado del anillo por capacidad. La
// expulsión es terminal.
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Data      SnapshotData `json:"data"`
	Checksum  string       `json:"checksum"`
}
