package entity

import "time"

// Tipos de dato que puede declarar una configuración.
const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
)

// Claves de configuración usadas por la lógica de negocio.
const (
	SettingReplenishFactor = "pedidos.factor_reposicion" // objetivo = factor × stock mínimo
	SettingMinOrderQty     = "pedidos.cantidad_minima"   // piso de cantidad por línea de pedido
)

// Setting entrada del almacén clave/valor de configuración.
// Solo los administradores la mutan.
type Setting struct {
	Key         string
	Value       string
	Description string
	DataType    string
	UpdatedAt   time.Time
}
