package entity

import "time"

// Provider representa un proveedor de medicamentos.
type Provider struct {
	ID        string
	Name      string
	NIT       string
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
