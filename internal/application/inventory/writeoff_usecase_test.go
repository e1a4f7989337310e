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

func newWriteOffFixture(t *testing.T) (*apptest.Store, *WriteOffUseCase) {
	t.Helper()
	store := apptest.NewStore()
	recorder := audit.NewRecorder(store.Audit, logger.Nop())
	t.Cleanup(recorder.Close)
	return store, NewWriteOffUseCase(store, store.WriteOffs, store.Lots, recorder)
}

func seedLot(t *testing.T, store *apptest.Store, productID string, qty int64) *entity.Lot {
	t.Helper()
	lot := &entity.Lot{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Code:       "L-100",
		Quantity:   decimal.NewFromInt(qty),
		UnitCost:   decimal.NewFromInt(500),
		Expiration: time.Now().AddDate(1, 0, 0),
		Status:     entity.LotStatusActive,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.Lots.Create(lot))
	return lot
}

func TestWriteOffApprove_DecrementaLote(t *testing.T) {
	store, uc := newWriteOffFixture(t)
	productID := seedProduct(t, store, "Naproxeno 250mg")
	lot := seedLot(t, store, productID, 40)

	wo, err := uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID:    lot.ID,
		Quantity: decimal.NewFromInt(15),
		Reason:   "empaque averiado",
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, wo.Status)
	assert.Equal(t, productID, wo.ProductID)

	approved, err := uc.Approve(context.Background(), wo.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCompleted, approved.Status)

	after, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, entity.LotStatusActive, after.Status)
}

func TestWriteOffApprove_LoteQuedaAgotado(t *testing.T) {
	store, uc := newWriteOffFixture(t)
	productID := seedProduct(t, store, "Metformina 850mg")
	lot := seedLot(t, store, productID, 12)

	wo, err := uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID:    lot.ID,
		Quantity: decimal.NewFromInt(12),
		Reason:   "vencimiento",
	})
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), wo.ID, "admin")
	require.NoError(t, err)

	after, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.IsZero())
	assert.Equal(t, entity.LotStatusDepleted, after.Status)
}

func TestWriteOffApprove_StockInsuficienteAlAprobar(t *testing.T) {
	store, uc := newWriteOffFixture(t)
	productID := seedProduct(t, store, "Captopril 25mg")
	lot := seedLot(t, store, productID, 20)

	wo, err := uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID:    lot.ID,
		Quantity: decimal.NewFromInt(20),
		Reason:   "deterioro",
	})
	require.NoError(t, err)

	// El stock cayó entre la solicitud y la aprobación (ventas FEFO)
	lot.Quantity = decimal.NewFromInt(5)
	require.NoError(t, store.Lots.UpdateQuantity(lot))

	_, err = uc.Approve(context.Background(), wo.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La solicitud sigue pendiente y el lote no cambió
	after, err := uc.GetByID(wo.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, after.Status)
	cur, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, cur.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestWriteOffCreate_Validaciones(t *testing.T) {
	store, uc := newWriteOffFixture(t)
	productID := seedProduct(t, store, "Salbutamol inhalador")
	lot := seedLot(t, store, productID, 10)

	_, err := uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID: lot.ID, Quantity: decimal.Zero, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID: lot.ID, Quantity: decimal.NewFromInt(11), Reason: "sobrepasa",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID: uuid.New().String(), Quantity: decimal.NewFromInt(1), Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWriteOffReject_TerminaElCiclo(t *testing.T) {
	store, uc := newWriteOffFixture(t)
	productID := seedProduct(t, store, "Enalapril 20mg")
	lot := seedLot(t, store, productID, 30)

	wo, err := uc.Create("solicitante", dto.CreateWriteOffRequest{
		LotID: lot.ID, Quantity: decimal.NewFromInt(10), Reason: "sospecha de humedad",
	})
	require.NoError(t, err)

	rejected, err := uc.Reject(context.Background(), wo.ID, "admin", "el lote está en buen estado")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, rejected.Status)
	assert.Equal(t, "el lote está en buen estado", rejected.RejectReason)

	// Terminal: ni aprobar ni volver a rechazar
	_, err = uc.Approve(context.Background(), wo.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Reject(context.Background(), wo.ID, "admin", "otro motivo")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Stock intacto
	cur, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, cur.Quantity.Equal(decimal.NewFromInt(30)))
}
