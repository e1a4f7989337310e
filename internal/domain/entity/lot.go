package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	LotStatusActive   = "activo"
	LotStatusDepleted = "agotado"
	LotStatusExpired  = "vencido"
)

// Lot representa un lote fechado de un producto: cantidad propia y fecha de
// vencimiento. Lo crean las recepciones aprobadas; lo decrementan las ventas
// (FEFO) y las bajas aprobadas. La cantidad nunca es negativa.
type Lot struct {
	ID         string
	ProductID  string
	Code       string // número de lote del fabricante
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Expiration time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired indica si el lote está vencido respecto a now.
func (l *Lot) IsExpired(now time.Time) bool {
	return l.Expiration.Before(now)
}
