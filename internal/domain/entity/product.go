package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un medicamento o producto de la farmacia.
// StockTotal es derivado: siempre se calcula como la suma de sus lotes
// activos, nunca se cachea en memoria.
type Product struct {
	ID           string
	Name         string
	Presentation string // tabletas, jarabe, ampolla, etc.
	UnitID       string // unidad de medida
	Controlled   bool   // medicamento de control especial
	Refrigerated bool   // requiere cadena de frío
	MinStock     decimal.Decimal // umbral de stock mínimo
	StockTotal   decimal.Decimal // derivado de los lotes (solo lectura)
	Price        decimal.Decimal // precio de venta unitario
	ProviderID   string          // proveedor por defecto para reposición
	Active       bool            // deshabilitado lógico, nunca borrado físico
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
