package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name         string          `json:"nombre" validate:"required"`
	Presentation string          `json:"presentacion"`
	UnitID       string          `json:"unidad_id"`
	Controlled   bool            `json:"controlado"`
	Refrigerated bool            `json:"refrigerado"`
	MinStock     decimal.Decimal `json:"stock_minimo"`
	Price        decimal.Decimal `json:"precio"`
	ProviderID   string          `json:"proveedor_id"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name         string          `json:"nombre"`
	Presentation string          `json:"presentacion"`
	UnitID       string          `json:"unidad_id"`
	Controlled   *bool           `json:"controlado"`
	Refrigerated *bool           `json:"refrigerado"`
	MinStock     *decimal.Decimal `json:"stock_minimo"`
	Price        *decimal.Decimal `json:"precio"`
	ProviderID   string          `json:"proveedor_id"`
}

// ProductResponse representación de un producto. StockTotal se deriva de los
// lotes en el momento de la consulta.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"nombre"`
	Presentation string          `json:"presentacion"`
	UnitID       string          `json:"unidad_id"`
	Controlled   bool            `json:"controlado"`
	Refrigerated bool            `json:"refrigerado"`
	MinStock     decimal.Decimal `json:"stock_minimo"`
	StockTotal   decimal.Decimal `json:"stock_total"`
	Price        decimal.Decimal `json:"precio"`
	ProviderID   string          `json:"proveedor_id,omitempty"`
	Active       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LowStockResponse producto bajo umbral, para GET /api/products/low-stock.
type LowStockResponse struct {
	ProductID  string          `json:"producto_id"`
	Name       string          `json:"nombre"`
	MinStock   decimal.Decimal `json:"stock_minimo"`
	Stock      decimal.Decimal `json:"stock_total"`
	ProviderID string          `json:"proveedor_id,omitempty"`
}
