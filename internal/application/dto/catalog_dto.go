package dto

import "time"

// CreateProviderRequest body para POST /api/providers.
type CreateProviderRequest struct {
	Name    string `json:"nombre" validate:"required"`
	NIT     string `json:"nit"`
	Phone   string `json:"telefono"`
	Email   string `json:"correo" validate:"omitempty,email"`
	Address string `json:"direccion"`
}

// UpdateProviderRequest body para PUT /api/providers/:id.
type UpdateProviderRequest struct {
	Name    string `json:"nombre"`
	NIT     string `json:"nit"`
	Phone   string `json:"telefono"`
	Email   string `json:"correo" validate:"omitempty,email"`
	Address string `json:"direccion"`
	Active  *bool  `json:"activo"`
}

// ProviderResponse representación de un proveedor.
type ProviderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	NIT       string    `json:"nit"`
	Phone     string    `json:"telefono"`
	Email     string    `json:"correo"`
	Address   string    `json:"direccion"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUnitRequest body para POST /api/units.
type CreateUnitRequest struct {
	Name   string `json:"nombre" validate:"required"`
	Symbol string `json:"simbolo"`
}

// UnitResponse representación de una unidad de medida.
type UnitResponse struct {
	ID     string `json:"id"`
	Name   string `json:"nombre"`
	Symbol string `json:"simbolo"`
}
