package pos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/application/apptest"
	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

func newSaleFixture(t *testing.T) (*apptest.Store, *SaleUseCase) {
	t.Helper()
	store := apptest.NewStore()
	recorder := audit.NewRecorder(store.Audit, logger.Nop())
	t.Cleanup(recorder.Close)
	return store, NewSaleUseCase(store, store.Sales, recorder)
}

func seedProduct(t *testing.T, store *apptest.Store, name string, price int64) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Active: true,
	}))
	return id
}

func seedLot(t *testing.T, store *apptest.Store, productID string, qty int64, expiresIn time.Duration) *entity.Lot {
	t.Helper()
	lot := &entity.Lot{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Quantity:   decimal.NewFromInt(qty),
		Expiration: time.Now().Add(expiresIn),
		Status:     entity.LotStatusActive,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.Lots.Create(lot))
	// CreatedAt distinto por lote para el desempate FEFO
	time.Sleep(time.Millisecond)
	return lot
}

func TestSaleCreate_FEFOAgotaElMasProximo(t *testing.T) {
	store, uc := newSaleFixture(t)
	productID := seedProduct(t, store, "Acetaminofén 500mg", 1500)

	near := seedLot(t, store, productID, 3, 30*24*time.Hour)
	far := seedLot(t, store, productID, 10, 300*24*time.Hour)

	sale, err := uc.Create(context.Background(), "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(8)}},
	})
	require.NoError(t, err)

	// Dos líneas: 3 del lote próximo a vencer, 5 del lejano
	require.Len(t, sale.Items, 2)
	assert.Equal(t, near.ID, sale.Items[0].LotID)
	assert.True(t, sale.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, far.ID, sale.Items[1].LotID)
	assert.True(t, sale.Items[1].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(8*1500)))

	nearAfter, err := store.Lots.GetByID(near.ID)
	require.NoError(t, err)
	assert.True(t, nearAfter.Quantity.IsZero())
	assert.Equal(t, entity.LotStatusDepleted, nearAfter.Status)

	farAfter, err := store.Lots.GetByID(far.ID)
	require.NoError(t, err)
	assert.True(t, farAfter.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestSaleCreate_StockInsuficienteNoVendeNada(t *testing.T) {
	store, uc := newSaleFixture(t)
	okProduct := seedProduct(t, store, "Ibuprofeno 400mg", 900)
	shortProduct := seedProduct(t, store, "Omeprazol 20mg", 1200)
	seedLot(t, store, okProduct, 50, 200*24*time.Hour)
	seedLot(t, store, shortProduct, 2, 200*24*time.Hour)

	_, err := uc.Create(context.Background(), "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: okProduct, Quantity: decimal.NewFromInt(10)},
			{ProductID: shortProduct, Quantity: decimal.NewFromInt(5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada persistido
	sales, err := uc.List(repository.SaleFilters{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSaleCreate_NoDispensaLotesVencidos(t *testing.T) {
	store, uc := newSaleFixture(t)
	productID := seedProduct(t, store, "Amoxicilina 500mg", 2000)

	seedLot(t, store, productID, 20, -24*time.Hour) // vencido
	valid := seedLot(t, store, productID, 5, 100*24*time.Hour)

	sale, err := uc.Create(context.Background(), "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, valid.ID, sale.Items[0].LotID)

	// Solo el lote vencido no cubre la demanda
	_, err = uc.Create(context.Background(), "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestSaleCancel_RestituyeALosMismosLotes(t *testing.T) {
	store, uc := newSaleFixture(t)
	productID := seedProduct(t, store, "Loratadina 10mg", 700)

	near := seedLot(t, store, productID, 3, 30*24*time.Hour)
	far := seedLot(t, store, productID, 10, 300*24*time.Hour)
	ctx := context.Background()

	sale, err := uc.Create(ctx, "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(8)}},
	})
	require.NoError(t, err)

	cancelled, err := uc.Cancel(ctx, sale.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// Cantidades originales restituidas lote a lote
	nearAfter, err := store.Lots.GetByID(near.ID)
	require.NoError(t, err)
	assert.True(t, nearAfter.Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, entity.LotStatusActive, nearAfter.Status)

	farAfter, err := store.Lots.GetByID(far.ID)
	require.NoError(t, err)
	assert.True(t, farAfter.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestSaleCancel_DobleCancelacionConflicto(t *testing.T) {
	store, uc := newSaleFixture(t)
	productID := seedProduct(t, store, "Diclofenaco 50mg", 500)
	lot := seedLot(t, store, productID, 10, 100*24*time.Hour)
	ctx := context.Background()

	sale, err := uc.Create(ctx, "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, sale.ID, "admin")
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, sale.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// La doble cancelación no restituye dos veces
	after, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestSaleCreate_Validaciones(t *testing.T) {
	store, uc := newSaleFixture(t)
	productID := seedProduct(t, store, "Naproxeno 250mg", 800)
	seedLot(t, store, productID, 10, 100*24*time.Hour)
	ctx := context.Background()

	_, err := uc.Create(ctx, "cajero", dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "cajero", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: uuid.New().String(), Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
