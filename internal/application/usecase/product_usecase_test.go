package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/application/apptest"
	"github.com/sigfarma/sigfarma-api/internal/application/usecase"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// sweepRecorder cuenta cuántas veces una consulta disparó la generación
// de alertas.
type sweepRecorder struct{ calls int }

func (s *sweepRecorder) Sweep(context.Context) { s.calls++ }

func TestListLowStock_DisparaGeneracionDeAlertas(t *testing.T) {
	store := apptest.NewStore()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID:       uuid.New().String(),
		Name:     "Amoxicilina 500mg",
		MinStock: decimal.NewFromInt(10),
		Active:   true,
	}))

	sweeper := &sweepRecorder{}
	uc := usecase.NewProductUseCase(store.Products, sweeper)

	rows, err := uc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, sweeper.calls)
}

func TestListLowStock_SinSweeperNoFalla(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewProductUseCase(store.Products, nil)

	rows, err := uc.ListLowStock(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
