package repository

import (
	"context"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// NotificationRepository puerto de persistencia de notificaciones.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	// ExistsUnread indica si ya hay una notificación activa sin leer para el
	// mismo (producto, tipo); es la clave de deduplicación.
	ExistsUnread(ctx context.Context, productID, notifType string) (bool, error)
	ListActive(limit, offset int) ([]*entity.Notification, error)
	MarkRead(id string) error
	// Dismiss borrado lógico (active = false).
	Dismiss(id string) error
}
