package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// LowStockRow producto bajo el umbral de stock mínimo, con su proveedor por
// defecto para la generación automática de pedidos.
type LowStockRow struct {
	ProductID  string
	Name       string
	ProviderID string // vacío si el producto no tiene proveedor conocido
	MinStock   decimal.Decimal
	Stock      decimal.Decimal
	UnitCost   decimal.Decimal // último costo de lote conocido
}

// ProductRepository puerto de persistencia de productos.
// StockTotal se deriva de los lotes en cada lectura; nunca se cachea.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	SetActive(id string, active bool) error
	// List busca por nombre con folding de acentos (query vacío lista todo).
	List(search string, onlyActive bool, limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve productos activos con stock < stock mínimo.
	ListLowStock(ctx context.Context) ([]LowStockRow, error)
	// StockTotal suma las cantidades de los lotes activos del producto.
	StockTotal(id string) (decimal.Decimal, error)
}
