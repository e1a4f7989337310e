package entity

import "time"

// Roles válidos para User.
const (
	RoleAdministrador = "administrador"
	RoleCajero        = "cajero"
	RoleInventario    = "inventario"
)

// ValidRole indica si el rol existe.
func ValidRole(r string) bool {
	switch r {
	case RoleAdministrador, RoleCajero, RoleInventario:
		return true
	}
	return false
}

// User representa un usuario del sistema. El correo es único sin distinguir
// mayúsculas; la desactivación es lógica y un usuario no puede desactivarse
// a sí mismo.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // administrador, cajero, inventario
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
