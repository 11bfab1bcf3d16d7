// Package backup mantiene el anillo de respaldos verificados por checksum
// y la recuperación ante corrupción del almacén local.
package backup

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// Checksum calcula el detector de corrupción de un snapshot: hash rodante
// ×31 sobre la serialización canónica del estado. No es criptográfico a
// propósito: detecta corrupción accidental, no manipulación adversaria.
//
// La serialización es estable: el orden de campos de struct es fijo y
// encoding/json ordena las claves de mapa, así que el mismo estado produce
// siempre los mismos bytes.
func Checksum(data entity.SnapshotData) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("serializar snapshot: %w", err)
	}
	var h int32
	for _, c := range b {
		h = h*31 + int32(c)
	}
	return strconv.FormatInt(int64(h), 10), nil
}

// Verify recomputa el checksum del snapshot y lo compara con el guardado.
func Verify(s entity.Snapshot) bool {
	sum, err := Checksum(s.Data)
	if err != nil {
		return false
	}
	return sum == s.Checksum
}
