package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStock umbral de stock mínimo cuando el producto no define uno.
const DefaultMinStock = 10

// Product representa un producto del inventario.
// Los tags JSON siguen el formato persistido (clave `products` del almacén),
// que es a la vez el formato del documento de exportación.
type Product struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"` // código único global
	Name        string          `json:"name"`
	Category    string          `json:"category"` // referencia Category.Name
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	MinStock    int             `json:"minStock"`
	Description string          `json:"description,omitempty"`
	Supplier    string          `json:"supplier,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Valid indica si el producto conserva sus campos estructurales mínimos.
// Un producto sin id, nombre o código se considera señal de corrupción.
func (p Product) Valid() bool {
	return p.ID != "" && p.Name != "" && p.Code != ""
}

// LowStock indica si la cantidad está en o por debajo del mínimo configurado.
func (p Product) LowStock() bool {
	min := p.MinStock
	if min <= 0 {
		min = DefaultMinStock
	}
	return p.Quantity <= min
}

// StockValue valor del stock actual (cantidad × precio).
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
