package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de un pedido nuevo.
type OrderItemRequest struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitCost  decimal.Decimal `json:"costo_unitario"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ProviderID string             `json:"proveedor_id" validate:"required"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest body para PUT /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitCost  decimal.Decimal `json:"costo_unitario"`
}

// OrderResponse representación de un pedido.
type OrderResponse struct {
	ID            string              `json:"id"`
	ProviderID    string              `json:"proveedor_id"`
	RequesterID   string              `json:"solicitante_id,omitempty"`
	Status        string              `json:"estado"`
	AutoGenerated bool                `json:"auto_generado"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ReceptionFromOrderRequest body para crear la recepción de un pedido
// recibido. Las líneas aportan lo que el pedido no conoce: código de lote y
// fecha de vencimiento de lo que llegó físicamente.
type ReceptionFromOrderRequest struct {
	Items []ReceptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// AutoOrderResponse resultado de la generación automática: pedidos creados y
// productos que no pudieron resolverse (sin proveedor conocido).
type AutoOrderResponse struct {
	Orders     []OrderResponse     `json:"pedidos"`
	Unresolved []UnresolvedProduct `json:"sin_resolver"`
}

// UnresolvedProduct producto bajo umbral sin proveedor para auto-pedido.
type UnresolvedProduct struct {
	ProductID string `json:"producto_id"`
	Name      string `json:"nombre"`
	Reason    string `json:"motivo"`
}
