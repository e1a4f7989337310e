package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceptionItemRequest línea de una recepción nueva.
type ReceptionItemRequest struct {
	ProductID  string          `json:"producto_id" validate:"required"`
	LotCode    string          `json:"codigo_lote"`
	Quantity   decimal.Decimal `json:"cantidad"`
	UnitCost   decimal.Decimal `json:"costo_unitario"`
	Expiration time.Time       `json:"fecha_vencimiento" validate:"required"`
}

// CreateReceptionRequest body para POST /api/inventory/receptions.
type CreateReceptionRequest struct {
	ProviderID string                 `json:"proveedor_id" validate:"required"`
	Items      []ReceptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// RejectRequest body para rechazar una recepción o baja.
type RejectRequest struct {
	Reason string `json:"motivo" validate:"required"`
}

// ReceptionItemResponse línea de recepción.
type ReceptionItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"producto_id"`
	LotCode    string          `json:"codigo_lote"`
	Quantity   decimal.Decimal `json:"cantidad"`
	UnitCost   decimal.Decimal `json:"costo_unitario"`
	Expiration time.Time       `json:"fecha_vencimiento"`
}

// ReceptionResponse cabecera de recepción con líneas.
type ReceptionResponse struct {
	ID          string                  `json:"id"`
	ProviderID  string                  `json:"proveedor_id"`
	RequesterID string                  `json:"solicitante_id"`
	ApproverID  string                  `json:"aprobador_id,omitempty"`
	OrderID     string                  `json:"pedido_id,omitempty"`
	Status      string                  `json:"estado"`
	Reason      string                  `json:"motivo,omitempty"`
	Items       []ReceptionItemResponse `json:"items"`
	CreatedAt   time.Time               `json:"created_at"`
	ResolvedAt  *time.Time              `json:"resolved_at,omitempty"`
}

// CreateWriteOffRequest body para POST /api/inventory/bajas.
type CreateWriteOffRequest struct {
	LotID    string          `json:"lote_id" validate:"required"`
	Quantity decimal.Decimal `json:"cantidad"`
	Reason   string          `json:"motivo" validate:"required"`
}

// WriteOffResponse representación de una baja.
type WriteOffResponse struct {
	ID           string          `json:"id"`
	LotID        string          `json:"lote_id"`
	ProductID    string          `json:"producto_id"`
	RequesterID  string          `json:"solicitante_id"`
	ApproverID   string          `json:"aprobador_id,omitempty"`
	Status       string          `json:"estado"`
	Quantity     decimal.Decimal `json:"cantidad"`
	Reason       string          `json:"motivo"`
	RejectReason string          `json:"motivo_rechazo,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
}

// LotResponse representación de un lote.
type LotResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"producto_id"`
	Code       string          `json:"codigo"`
	Quantity   decimal.Decimal `json:"cantidad"`
	UnitCost   decimal.Decimal `json:"costo_unitario"`
	Expiration time.Time       `json:"fecha_vencimiento"`
	Status     string          `json:"estado"`
}

// ExpiringLotResponse lote próximo a vencer, con clasificación de ventana.
type ExpiringLotResponse struct {
	LotResponse
	ProductName string `json:"producto_nombre"`
	Severity    string `json:"severidad"` // vencido, vencimiento_critico, vencimiento_advertencia
}
