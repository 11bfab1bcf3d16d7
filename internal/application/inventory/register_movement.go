// Package inventory contiene el caso de uso de registro de movimientos de
// stock: alta del movimiento + ajuste de la cantidad del producto como una
// sola operación atómica.
package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/localstore"
)

// RegisterMovementUseCase registra un movimiento y ajusta la cantidad del
// producto dentro de la misma sección crítica, de modo que ningún snapshot
// de respaldo ni otra mutación pueda observar el paso intermedio.
type RegisterMovementUseCase struct {
	tx        *localstore.TxRunner
	movements repository.MovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso. movements se usa
// solo para lecturas fuera de la transacción.
func NewRegisterMovementUseCase(tx *localstore.TxRunner, movements repository.MovementRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{tx: tx, movements: movements}
}

// Register valida y ejecuta el movimiento. Producto inexistente →
// ErrNotFound; salida mayor al stock disponible → ErrInsufficientStock.
func (uc *RegisterMovementUseCase) Register(in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if !entity.ValidType(in.Type) || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	movement := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Date:      time.Now(),
	}
	err := uc.tx.Run(func(tx localstore.Repos) error {
		product, err := tx.Products.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		switch in.Type {
		case entity.MovementTypeIn:
			product.Quantity += in.Quantity
		case entity.MovementTypeOut:
			if in.Quantity > product.Quantity {
				return domain.ErrInsufficientStock
			}
			product.Quantity -= in.Quantity
		}
		if err := tx.Movements.Add(movement); err != nil {
			return err
		}
		product.UpdatedAt = time.Now()
		return tx.Products.Update(product)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(movement), nil
}

// List devuelve los movimientos; con productID no vacío filtra por producto.
func (uc *RegisterMovementUseCase) List(productID string) (*dto.MovementListResponse, error) {
	movements, err := uc.movements.GetAll(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *toMovementResponse(&movements[i]))
	}
	return &dto.MovementListResponse{Items: items, Total: len(items)}, nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Date:      m.Date,
	}
}
