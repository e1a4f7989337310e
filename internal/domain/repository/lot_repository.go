package repository

import (
	"context"
	"time"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// ExpiringLotRow lote próximo a vencer con el nombre del producto, para las
// alertas de vencimiento.
type ExpiringLotRow struct {
	Lot         entity.Lot
	ProductName string
}

// LotRepository puerto de persistencia de lotes. Las variantes ForUpdate
// bloquean la fila (SELECT FOR UPDATE) y solo tienen sentido dentro de una
// transacción del TxRunner.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetByProductAndExpirationForUpdate bloquea el lote destino de una
	// línea de recepción aprobada (mismo producto y misma fecha de
	// vencimiento); el incremento se calcula sobre la fila bloqueada.
	GetByProductAndExpirationForUpdate(ctx context.Context, productID string, expiration time.Time) (*entity.Lot, error)
	ListByProduct(productID string) ([]*entity.Lot, error)
	// ListForUpdateByProduct bloquea todos los lotes con existencia del
	// producto, en orden de vencimiento, para la asignación FEFO.
	ListForUpdateByProduct(ctx context.Context, productID string) ([]*entity.Lot, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	UpdateQuantity(lot *entity.Lot) error
	// ListExpiring lotes con existencia que vencen dentro de withinDays
	// (incluye ya vencidos), orden ascendente por vencimiento.
	ListExpiring(ctx context.Context, withinDays int) ([]ExpiringLotRow, error)
}
