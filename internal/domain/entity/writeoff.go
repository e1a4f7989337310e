package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WriteOff (baja) solicitud de retiro de stock de un lote: vencimiento,
// avería, pérdida. Mismo ciclo de aprobación que Reception pero la
// aprobación decrementa el lote en lugar de crearlo.
type WriteOff struct {
	ID          string
	LotID       string
	ProductID   string
	RequesterID string
	ApproverID  string
	Status      string // workflow.Status* (ciclo compartido con Reception)
	Quantity    decimal.Decimal
	Reason      string // motivo de la baja
	RejectReason string // motivo de rechazo, si aplica
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}
