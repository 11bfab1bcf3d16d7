package localstore

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

func newMovement(productID, mtype string, quantity int) *entity.Movement {
	return &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      mtype,
		Quantity:  quantity,
		Reason:    "venta",
		Date:      time.Now(),
	}
}

func TestMovementRepo_FiltraPorProducto(t *testing.T) {
	repo := NewMovementRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	require.NoError(t, repo.Add(newMovement("p1", entity.MovementTypeOut, 3)))
	require.NoError(t, repo.Add(newMovement("p2", entity.MovementTypeIn, 7)))
	require.NoError(t, repo.Add(newMovement("p1", entity.MovementTypeIn, 1)))

	all, err := repo.GetAll("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	deP1, err := repo.GetAll("p1")
	require.NoError(t, err)
	require.Len(t, deP1, 2)
	for _, m := range deP1 {
		assert.Equal(t, "p1", m.ProductID)
	}
}

func TestMovementRepo_ConservaOrdenDeLlegada(t *testing.T) {
	repo := NewMovementRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	first := newMovement("p1", entity.MovementTypeIn, 1)
	second := newMovement("p1", entity.MovementTypeOut, 2)
	require.NoError(t, repo.Add(first))
	require.NoError(t, repo.Add(second))

	all, err := repo.GetAll("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestMovementRepo_DeleteIndividual(t *testing.T) {
	repo := NewMovementRepository(newTestStore(t), &Hook{}, &sync.RWMutex{})

	m := newMovement("p1", entity.MovementTypeOut, 3)
	require.NoError(t, repo.Add(m))
	require.NoError(t, repo.Delete(m.ID))

	got, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
