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

func newNotificationFixture(t *testing.T) (*apptest.Store, *NotificationUseCase) {
	t.Helper()
	store := apptest.NewStore()
	uc := NewNotificationUseCase(store.Notifications, store.Products, store.Lots, logger.Nop())
	return store, uc
}

func TestGenerateAlerts_StockBajoConDeduplicacion(t *testing.T) {
	store, uc := newNotificationFixture(t)
	productID := seedProduct(t, store, "Aspirina 100mg") // mínimo 10, stock 0
	ctx := context.Background()

	created, err := uc.GenerateAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Segundo barrido sin cambios: la alerta sin leer bloquea el duplicado
	created, err = uc.GenerateAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	active, err := uc.ListActive(dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, entity.NotificationLowStock, active[0].Type)
	assert.Equal(t, entity.PriorityHigh, active[0].Priority)
	assert.Equal(t, productID, active[0].ProductID)

	// Leída: el siguiente barrido puede volver a alertar
	require.NoError(t, uc.MarkRead(active[0].ID))
	created, err = uc.GenerateAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestGenerateAlerts_VencimientosPorVentana(t *testing.T) {
	store, uc := newNotificationFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		days     int
		wantType string
		wantPrio string
	}{
		{"lote vencido", -5, entity.NotificationExpired, entity.PriorityCritical},
		{"ventana crítica", 90, entity.NotificationExpiryCritical, entity.PriorityHigh},
		{"ventana de advertencia", 300, entity.NotificationExpiryWarning, entity.PriorityMedium},
	}
	for _, tc := range cases {
		productID := uuid.New().String()
		require.NoError(t, store.Products.Create(&entity.Product{
			ID: productID, Name: tc.name, MinStock: decimal.Zero, Active: true,
		}))
		require.NoError(t, store.Lots.Create(&entity.Lot{
			ID:         uuid.New().String(),
			ProductID:  productID,
			Code:       "L-" + tc.name,
			Quantity:   decimal.NewFromInt(5),
			Expiration: time.Now().AddDate(0, 0, tc.days),
			Status:     entity.LotStatusActive,
			CreatedAt:  time.Now(),
		}))
	}

	created, err := uc.GenerateAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(cases), created)

	active, err := uc.ListActive(dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.Len(t, active, len(cases))

	byType := map[string]dto.NotificationResponse{}
	for _, n := range active {
		byType[n.Type] = n
	}
	for _, tc := range cases {
		n, ok := byType[tc.wantType]
		require.True(t, ok, "falta alerta de tipo %s", tc.wantType)
		assert.Equal(t, tc.wantPrio, n.Priority)
		assert.NotEmpty(t, n.LotID)
	}
}

func TestGenerateAlerts_LoteFueraDeVentanaNoAlerta(t *testing.T) {
	store, uc := newNotificationFixture(t)
	productID := uuid.New().String()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: productID, Name: "Vitamina C", MinStock: decimal.Zero, Active: true,
	}))
	require.NoError(t, store.Lots.Create(&entity.Lot{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Quantity:   decimal.NewFromInt(100),
		Expiration: time.Now().AddDate(2, 0, 0),
		Status:     entity.LotStatusActive,
		CreatedAt:  time.Now(),
	}))

	created, err := uc.GenerateAlerts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestNotificationDismiss_SaleDelListado(t *testing.T) {
	store, uc := newNotificationFixture(t)
	seedProduct(t, store, "Gasas estériles")

	_, err := uc.GenerateAlerts(context.Background())
	require.NoError(t, err)

	active, err := uc.ListActive(dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, uc.Dismiss(active[0].ID))

	active, err = uc.ListActive(dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, active)
}
