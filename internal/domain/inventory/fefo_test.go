package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/inventory"
)

func lot(id string, qty int64, exp string) *entity.Lot {
	t, _ := time.Parse("2006-01-02", exp)
	return &entity.Lot{
		ID:         id,
		Quantity:   decimal.NewFromInt(qty),
		Expiration: t,
		Status:     entity.LotStatusActive,
	}
}

// Escenario del flujo de venta: 8 unidades contra dos lotes (3 unidades que
// vencen en 2025, 10 en 2026) agota el lote próximo a vencer y toma 5 del
// siguiente.
func TestAllocateFEFO_AgotaPrimeroElProximoAVencer(t *testing.T) {
	lots := []*entity.Lot{
		lot("tardio", 10, "2026-01-01"),
		lot("proximo", 3, "2025-01-01"),
	}

	allocs, err := inventory.AllocateFEFO(lots, decimal.NewFromInt(8))
	require.NoError(t, err)
	require.Len(t, allocs, 2)

	assert.Equal(t, "proximo", allocs[0].Lot.ID, "el lote más próximo a vencer va primero")
	assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "tardio", allocs[1].Lot.ID)
	assert.True(t, allocs[1].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestAllocateFEFO_OrdenNoDecrecientePorVencimiento(t *testing.T) {
	lots := []*entity.Lot{
		lot("c", 5, "2027-03-01"),
		lot("a", 5, "2025-06-01"),
		lot("b", 5, "2026-01-15"),
	}
	allocs, err := inventory.AllocateFEFO(lots, decimal.NewFromInt(12))
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	for i := 1; i < len(allocs); i++ {
		prev, cur := allocs[i-1].Lot.Expiration, allocs[i].Lot.Expiration
		assert.False(t, cur.Before(prev), "los lotes deben consumirse en orden de vencimiento")
	}
}

func TestAllocateFEFO_AjusteExacto(t *testing.T) {
	lots := []*entity.Lot{lot("a", 4, "2025-01-01"), lot("b", 4, "2026-01-01")}
	allocs, err := inventory.AllocateFEFO(lots, decimal.NewFromInt(4))
	require.NoError(t, err)
	require.Len(t, allocs, 1, "una sola asignación si el primer lote alcanza")
	assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(4)))
}

// Si lo pedido supera la disponibilidad total, ningún lote se toca.
func TestAllocateFEFO_StockInsuficiente(t *testing.T) {
	lots := []*entity.Lot{lot("a", 3, "2025-01-01"), lot("b", 2, "2026-01-01")}
	allocs, err := inventory.AllocateFEFO(lots, decimal.NewFromInt(6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, allocs)
	// los lotes conservan sus cantidades originales
	assert.True(t, lots[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, lots[1].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestAllocateFEFO_IgnoraLotesVacios(t *testing.T) {
	lots := []*entity.Lot{lot("vacio", 0, "2024-01-01"), lot("lleno", 5, "2026-01-01")}
	allocs, err := inventory.AllocateFEFO(lots, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "lleno", allocs[0].Lot.ID)
}

func TestAllocateFEFO_CantidadNoPositiva(t *testing.T) {
	lots := []*entity.Lot{lot("a", 5, "2026-01-01")}
	_, err := inventory.AllocateFEFO(lots, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClassifyExpiry_Ventanas(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		days int
		want string
	}{
		{-1, entity.NotificationExpired},
		{0, entity.NotificationExpiryCritical},
		{180, entity.NotificationExpiryCritical},
		{181, entity.NotificationExpiryWarning},
		{365, entity.NotificationExpiryWarning},
		{366, ""},
	}
	for _, c := range cases {
		exp := now.AddDate(0, 0, c.days)
		assert.Equal(t, c.want, inventory.ClassifyExpiry(exp, now), "a %d días", c.days)
	}
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, entity.PriorityCritical, inventory.PriorityFor(entity.NotificationExpired))
	assert.Equal(t, entity.PriorityHigh, inventory.PriorityFor(entity.NotificationLowStock))
	assert.Equal(t, entity.PriorityMedium, inventory.PriorityFor(entity.NotificationExpiryWarning))
}
