package postgres

import (
	"context"
	"fmt"

	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación del puerto NotificationRepository sobre
// PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(n *entity.Notification) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO notifications (id, product_id, lot_id, type, message, priority, active, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)`,
		n.ID, n.ProductID, n.LotID, n.Type, n.Message, n.Priority, n.Active, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ExistsUnread clave de deduplicación: alerta activa sin leer para el mismo
// (producto, tipo).
func (r *NotificationRepo) ExistsUnread(ctx context.Context, productID, notifType string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE product_id = $1 AND type = $2 AND active AND seen_at IS NULL
		)`,
		productID, notifType,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check unread notification: %w", err)
	}
	return exists, nil
}

func (r *NotificationRepo) ListActive(limit, offset int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(context.Background(), `
		SELECT id, product_id, COALESCE(lot_id::text, ''), type, message, priority, active, created_at, seen_at
		FROM notifications
		WHERE active
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.ProductID, &n.LotID, &n.Type, &n.Message,
			&n.Priority, &n.Active, &n.CreatedAt, &n.SeenAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *NotificationRepo) MarkRead(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE notifications SET seen_at = now() WHERE id = $1 AND seen_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Leída de nuevo o inexistente: verificar cuál
		var exists bool
		if err := r.q.QueryRow(context.Background(),
			`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check notification: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}

// Dismiss borrado lógico.
func (r *NotificationRepo) Dismiss(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE notifications SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
