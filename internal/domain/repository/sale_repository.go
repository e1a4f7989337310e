package repository

import (
	"context"
	"time"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// SaleFilters filtros de listado de ventas.
type SaleFilters struct {
	CashierID string
	Status    string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create persiste cabecera y líneas (con atribución de lote) juntas.
	Create(s *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera para la cancelación: la guarda de
	// "ya cancelada" y la restitución de stock comparten transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(s *entity.Sale) error
	List(f SaleFilters) ([]*entity.Sale, error)
}
