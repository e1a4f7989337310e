// Package inventory contiene la lógica pura de inventario: asignación FEFO
// de lotes para ventas y clasificación de vencimientos.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// Allocation cantidad tomada de un lote concreto.
type Allocation struct {
	Lot      *entity.Lot
	Quantity decimal.Decimal
}

// AllocateFEFO reparte la cantidad solicitada entre los lotes con existencia,
// agotando primero el de vencimiento más próximo (First-Expired-First-Out).
// Si la disponibilidad total es menor a lo pedido devuelve
// ErrInsufficientStock sin asignar nada; los lotes no se mutan nunca aquí.
func AllocateFEFO(lots []*entity.Lot, requested decimal.Decimal) ([]Allocation, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	available := make([]*entity.Lot, 0, len(lots))
	total := decimal.Zero
	for _, l := range lots {
		if l.Quantity.GreaterThan(decimal.Zero) {
			available = append(available, l)
			total = total.Add(l.Quantity)
		}
	}
	if total.LessThan(requested) {
		return nil, domain.ErrInsufficientStock
	}

	// Orden estable por vencimiento ascendente; a igual fecha, el lote más
	// antiguo primero.
	sort.SliceStable(available, func(i, j int) bool {
		if !available[i].Expiration.Equal(available[j].Expiration) {
			return available[i].Expiration.Before(available[j].Expiration)
		}
		return available[i].CreatedAt.Before(available[j].CreatedAt)
	})

	var allocs []Allocation
	remaining := requested
	for _, l := range available {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(l.Quantity, remaining)
		allocs = append(allocs, Allocation{Lot: l, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return allocs, nil
}
