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
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

func TestListExpiring_DisparaGeneracionDeAlertas(t *testing.T) {
	store := apptest.NewStore()
	notifUC := NewNotificationUseCase(store.Notifications, store.Products, store.Lots, logger.Nop())
	uc := NewLotUseCase(store.Lots, store.Products, notifUC)

	productID := uuid.New().String()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: productID, Name: "Insulina NPH", MinStock: decimal.Zero, Active: true,
	}))
	require.NoError(t, store.Lots.Create(&entity.Lot{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Code:       "L-INS-01",
		Quantity:   decimal.NewFromInt(12),
		Expiration: time.Now().AddDate(0, 0, 90),
		Status:     entity.LotStatusActive,
		CreatedAt:  time.Now(),
	}))

	rows, err := uc.ListExpiring(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// La consulta dejó la alerta creada, sin barrido aparte de por medio.
	active, err := notifUC.ListActive(dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, entity.NotificationExpiryCritical, active[0].Type)
	assert.Equal(t, productID, active[0].ProductID)
}

func TestListExpiring_SinAlertasConfiguradas(t *testing.T) {
	store := apptest.NewStore()
	uc := NewLotUseCase(store.Lots, store.Products, nil)

	rows, err := uc.ListExpiring(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
