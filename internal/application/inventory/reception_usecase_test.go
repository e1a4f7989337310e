package inventory

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
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

func newReceptionFixture(t *testing.T) (*apptest.Store, *ReceptionUseCase, string) {
	t.Helper()
	store := apptest.NewStore()
	recorder := audit.NewRecorder(store.Audit, logger.Nop())
	t.Cleanup(recorder.Close)

	providerID := uuid.New().String()
	require.NoError(t, store.Providers.Create(&entity.Provider{
		ID: providerID, Name: "Droguería Central", Active: true,
	}))

	uc := NewReceptionUseCase(store, store.Receptions, store.Products, store.Providers, recorder)
	return store, uc, providerID
}

func seedProduct(t *testing.T, store *apptest.Store, name string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: id, Name: name, MinStock: decimal.NewFromInt(10), Active: true,
	}))
	return id
}

func TestReceptionApprove_CreaLoteNuevo(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Acetaminofén 500mg")
	exp := time.Now().AddDate(1, 0, 0)

	rec, err := uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			LotCode:    "L-001",
			Quantity:   decimal.NewFromInt(30),
			UnitCost:   decimal.NewFromFloat(1200.50),
			Expiration: exp,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, rec.Status)

	// La recepción pendiente no afecta stock
	stock, err := store.Products.StockTotal(productID)
	require.NoError(t, err)
	assert.True(t, stock.IsZero())

	approved, err := uc.Approve(context.Background(), rec.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCompleted, approved.Status)
	assert.Equal(t, "admin", approved.ApproverID)
	require.NotNil(t, approved.ResolvedAt)

	lots, err := store.Lots.ListByProduct(productID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "L-001", lots[0].Code)
	assert.True(t, lots[0].Quantity.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, entity.LotStatusActive, lots[0].Status)
}

func TestReceptionApprove_IncrementaLoteExistente(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Ibuprofeno 400mg")
	exp := time.Now().AddDate(1, 0, 0)

	for _, qty := range []int64{20, 15} {
		rec, err := uc.Create("solicitante", dto.CreateReceptionRequest{
			ProviderID: providerID,
			Items: []dto.ReceptionItemRequest{{
				ProductID:  productID,
				LotCode:    "L-002",
				Quantity:   decimal.NewFromInt(qty),
				UnitCost:   decimal.NewFromInt(800),
				Expiration: exp,
			}},
		})
		require.NoError(t, err)
		_, err = uc.Approve(context.Background(), rec.ID, "admin")
		require.NoError(t, err)
	}

	// Mismo producto + mismo vencimiento: un solo lote acumulado
	lots, err := store.Lots.ListByProduct(productID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Quantity.Equal(decimal.NewFromInt(35)))
}

func TestReceptionApprove_IncrementaSobreExistenciaActual(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Ranitidina 150mg")
	exp := time.Now().AddDate(1, 0, 0)

	rec, err := uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			LotCode:    "L-003",
			Quantity:   decimal.NewFromInt(30),
			UnitCost:   decimal.NewFromInt(600),
			Expiration: exp,
		}},
	})
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), rec.ID, "admin")
	require.NoError(t, err)

	// Una venta consume parte del lote entre las dos recepciones
	lots, err := store.Lots.ListByProduct(productID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	lots[0].Quantity = lots[0].Quantity.Sub(decimal.NewFromInt(8))
	require.NoError(t, store.Lots.UpdateQuantity(lots[0]))

	rec, err = uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			LotCode:    "L-003",
			Quantity:   decimal.NewFromInt(10),
			UnitCost:   decimal.NewFromInt(600),
			Expiration: exp,
		}},
	})
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), rec.ID, "admin")
	require.NoError(t, err)

	// El incremento parte de la existencia vigente (22), no de la leída
	// al crear la solicitud: 22 + 10, sin resucitar las 8 vendidas
	stock, err := store.Products.StockTotal(productID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(32)), "stock = %s", stock)
}

func TestReceptionApprove_DobleAprobacionConflicto(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Loratadina 10mg")

	rec, err := uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			Quantity:   decimal.NewFromInt(10),
			UnitCost:   decimal.NewFromInt(500),
			Expiration: time.Now().AddDate(1, 0, 0),
		}},
	})
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), rec.ID, "admin")
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), rec.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El stock no se duplicó
	stock, err := store.Products.StockTotal(productID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(10)))
}

func TestReceptionReject_ExigeMotivoYNoTocaStock(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Omeprazol 20mg")

	rec, err := uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			Quantity:   decimal.NewFromInt(50),
			UnitCost:   decimal.NewFromInt(300),
			Expiration: time.Now().AddDate(2, 0, 0),
		}},
	})
	require.NoError(t, err)

	_, err = uc.Reject(context.Background(), rec.ID, "admin", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rejected, err := uc.Reject(context.Background(), rec.ID, "admin", "factura no coincide")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, rejected.Status)
	assert.Equal(t, "factura no coincide", rejected.Reason)

	stock, err := store.Products.StockTotal(productID)
	require.NoError(t, err)
	assert.True(t, stock.IsZero())

	// Estado terminal: no se puede aprobar después de rechazar
	_, err = uc.Approve(context.Background(), rec.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceptionCreate_Validaciones(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Amoxicilina 500mg")

	// Sin líneas
	_, err := uc.Create("solicitante", dto.CreateReceptionRequest{ProviderID: providerID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva
	_, err = uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			Quantity:   decimal.Zero,
			Expiration: time.Now().AddDate(1, 0, 0),
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Proveedor inexistente
	_, err = uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: uuid.New().String(),
		Items: []dto.ReceptionItemRequest{{
			ProductID:  productID,
			Quantity:   decimal.NewFromInt(1),
			Expiration: time.Now().AddDate(1, 0, 0),
		}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Producto inexistente
	_, err = uc.Create("solicitante", dto.CreateReceptionRequest{
		ProviderID: providerID,
		Items: []dto.ReceptionItemRequest{{
			ProductID:  uuid.New().String(),
			Quantity:   decimal.NewFromInt(1),
			Expiration: time.Now().AddDate(1, 0, 0),
		}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceptionListPending_MasAntiguasPrimero(t *testing.T) {
	store, uc, providerID := newReceptionFixture(t)
	productID := seedProduct(t, store, "Diclofenaco 50mg")

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := uc.Create("solicitante", dto.CreateReceptionRequest{
			ProviderID: providerID,
			Items: []dto.ReceptionItemRequest{{
				ProductID:  productID,
				Quantity:   decimal.NewFromInt(5),
				UnitCost:   decimal.NewFromInt(100),
				Expiration: time.Now().AddDate(1, 0, 0),
			}},
		})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
		time.Sleep(2 * time.Millisecond)
	}

	pending, err := uc.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for i, p := range pending {
		assert.Equal(t, ids[i], p.ID)
	}
}
