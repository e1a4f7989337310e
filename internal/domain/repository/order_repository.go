package repository

import (
	"context"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// OrderFilters filtros de listado de pedidos.
type OrderFilters struct {
	Status        string
	ProviderID    string
	AutoGenerated *bool
	Limit         int
	Offset        int
}

// OrderRepository puerto de persistencia de pedidos.
type OrderRepository interface {
	Create(o *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(o *entity.Order) error
	List(f OrderFilters) ([]*entity.Order, error)
	// HasOpenAutoOrder indica si ya existe un pedido auto-generado no
	// terminal que incluya el producto (evita borradores duplicados).
	HasOpenAutoOrder(ctx context.Context, productID string) (bool, error)
}
