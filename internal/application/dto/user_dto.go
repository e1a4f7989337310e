package dto

// CreateUserRequest body para POST /api/users.
type CreateUserRequest struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"rol" validate:"required"`
}

// UpdateUserRequest body para PUT /api/users/:id. Password vacío = sin cambio.
type UpdateUserRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"rol"`
	Active   *bool  `json:"activo"`
}
