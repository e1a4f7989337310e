package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest cantidad solicitada de un producto (el lote lo decide FEFO).
type SaleLineRequest struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Quantity  decimal.Decimal `json:"cantidad"`
}

// CreateSaleRequest body para POST /api/pos/sales.
type CreateSaleRequest struct {
	Lines []SaleLineRequest `json:"lineas" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de venta con el lote del que se tomó la cantidad.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"producto_id"`
	LotID     string          `json:"lote_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse representación de una venta.
type SaleResponse struct {
	ID          string             `json:"id"`
	CashierID   string             `json:"cajero_id"`
	Status      string             `json:"estado"`
	Total       decimal.Decimal    `json:"total"`
	Items       []SaleItemResponse `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
}
