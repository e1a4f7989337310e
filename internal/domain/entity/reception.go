package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reception cabecera de una recepción de mercancía. Se crea en Pendiente y
// solo transiciona mediante la aprobación de un administrador; una vez en
// estado terminal no vuelve a transicionar.
type Reception struct {
	ID          string
	ProviderID  string
	RequesterID string // usuario que registró la recepción
	ApproverID  string // administrador que la aprobó o rechazó
	OrderID     string // pedido de origen, si se creó desde uno
	Status      string // workflow.Status*
	Reason      string // motivo de rechazo
	Items       []ReceptionItem
	CreatedAt   time.Time
	ResolvedAt  *time.Time // momento de aprobación o rechazo
}

// ReceptionItem línea de una recepción: producto, cantidad, costo y
// vencimiento del lote que se creará al aprobar.
type ReceptionItem struct {
	ID         string
	ReceptionID string
	ProductID  string
	LotCode    string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Expiration time.Time
}
