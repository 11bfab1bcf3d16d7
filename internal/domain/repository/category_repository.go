package repository

import "github.com/jhoicas/stockmaster-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Add(category *entity.Category) error
	GetAll() ([]entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	Delete(id string) error
	Clear() error
}
