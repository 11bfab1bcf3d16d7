package repository

import "github.com/jhoicas/stockmaster-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para Movement (DIP).
// Los movimientos son inmutables: no hay Update.
type MovementRepository interface {
	Add(movement *entity.Movement) error
	// GetAll devuelve todos los movimientos; con productID no vacío filtra
	// por producto.
	GetAll(productID string) ([]entity.Movement, error)
	GetByID(id string) (*entity.Movement, error)
	Delete(id string) error
	Clear() error
}
