package inventory

import (
	"time"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// Ventanas de alerta de vencimiento, en días. Fijas en la lógica de negocio.
const (
	ExpiryCriticalDays = 180
	ExpiryWarningDays  = 365
)

// ClassifyExpiry clasifica la fecha de vencimiento de un lote respecto a now:
// vencido (<0 días), crítico (≤180), advertencia (≤365) o vacío si no amerita
// alerta.
func ClassifyExpiry(expiration, now time.Time) string {
	days := int(expiration.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return entity.NotificationExpired
	case days <= ExpiryCriticalDays:
		return entity.NotificationExpiryCritical
	case days <= ExpiryWarningDays:
		return entity.NotificationExpiryWarning
	}
	return ""
}

// PriorityFor devuelve la prioridad de la notificación según su tipo.
func PriorityFor(notifType string) string {
	switch notifType {
	case entity.NotificationExpired:
		return entity.PriorityCritical
	case entity.NotificationExpiryCritical, entity.NotificationLowStock:
		return entity.PriorityHigh
	case entity.NotificationExpiryWarning:
		return entity.PriorityMedium
	}
	return entity.PriorityLow
}
