package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusActive    = "activa"
	SaleStatusCancelled = "cancelada"
)

// Sale venta de mostrador. Cada línea registra el lote del que se tomó la
// cantidad (atribución FEFO) para que la cancelación pueda restituir
// exactamente lo consumido a los mismos lotes.
type Sale struct {
	ID        string
	CashierID string
	Status    string
	Total     decimal.Decimal
	Items     []SaleItem
	CreatedAt time.Time
	CancelledAt *time.Time
}

// SaleItem línea de venta con atribución de lote. Una petición de N unidades
// de un producto puede generar varias líneas si se agotó más de un lote.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	LotID     string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Subtotal de la línea.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
