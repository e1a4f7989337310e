package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido de compra a un proveedor. AutoGenerated marca los pedidos
// borradores creados por la detección de stock bajo.
type Order struct {
	ID            string
	ProviderID    string
	RequesterID   string
	Status        string // workflow.OrderStatus*
	AutoGenerated bool
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea de un pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}
