package entity

import "time"

// Tipos de movimiento de stock. Los valores en portugués son parte del
// formato persistido y del documento de exportación.
const (
	MovementTypeIn  = "entrada"
	MovementTypeOut = "saida"
)

// Movement representa un movimiento de stock (entrada o salida).
// Inmutable después de creado; el ajuste de cantidad del producto es una
// operación separada que RegisterMovementUseCase ejecuta en la misma
// sección crítica.
type Movement struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"` // siempre positivo; el signo lo da Type
	Reason    string    `json:"reason"`
	Date      time.Time `json:"date"`
}

// Valid indica si el movimiento conserva sus campos estructurales mínimos.
func (m Movement) Valid() bool {
	return m.ID != "" && m.ProductID != "" && m.Type != ""
}

// ValidType indica si Type es uno de los valores conocidos.
func ValidType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}
