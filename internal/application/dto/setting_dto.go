package dto

import "time"

// UpsertSettingRequest body para PUT /api/settings/:key.
type UpsertSettingRequest struct {
	Value       string `json:"valor" validate:"required"`
	Description string `json:"descripcion"`
	DataType    string `json:"tipo" validate:"omitempty,oneof=string number boolean"`
}

// SettingResponse entrada de configuración.
type SettingResponse struct {
	Key         string    `json:"clave"`
	Value       string    `json:"valor"`
	Description string    `json:"descripcion"`
	DataType    string    `json:"tipo"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotificationResponse alerta activa.
type NotificationResponse struct {
	ID        string     `json:"id"`
	ProductID string     `json:"producto_id"`
	LotID     string     `json:"lote_id,omitempty"`
	Type      string     `json:"tipo"`
	Message   string     `json:"mensaje"`
	Priority  string     `json:"prioridad"`
	CreatedAt time.Time  `json:"created_at"`
	SeenAt    *time.Time `json:"seen_at,omitempty"`
}
