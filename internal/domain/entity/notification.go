package entity

import "time"

// Tipos de notificación.
const (
	NotificationLowStock      = "stock_bajo"
	NotificationExpiryWarning = "vencimiento_advertencia" // lote vence en ≤365 días
	NotificationExpiryCritical = "vencimiento_critico"    // lote vence en ≤180 días
	NotificationExpired       = "vencido"                 // lote ya vencido
)

// Prioridades.
const (
	PriorityLow      = "baja"
	PriorityMedium   = "media"
	PriorityHigh     = "alta"
	PriorityCritical = "critica"
)

// Notification alerta de stock bajo o vencimiento asociada a un producto.
// No se duplica mientras exista una instancia activa sin leer para el mismo
// (producto, tipo). Se descarta con borrado lógico.
type Notification struct {
	ID        string
	ProductID string
	LotID     string // vacío para alertas de stock
	Type      string
	Message   string
	Priority  string
	Active    bool
	CreatedAt time.Time
	SeenAt    *time.Time
}

// IsRead indica si la notificación ya fue leída.
func (n *Notification) IsRead() bool {
	return n.SeenAt != nil
}
