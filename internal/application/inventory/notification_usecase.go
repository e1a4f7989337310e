package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	domaininv "github.com/sigfarma/sigfarma-api/internal/domain/inventory"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

// NotificationUseCase genera y administra alertas de stock y vencimiento.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	products      repository.ProductRepository
	lots          repository.LotRepository
	log           *logger.Logger
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(
	notifications repository.NotificationRepository,
	products repository.ProductRepository,
	lots repository.LotRepository,
	log *logger.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{
		notifications: notifications,
		products:      products,
		lots:          lots,
		log:           log,
	}
}

// GenerateAlerts recorre stock y vencimientos y crea las alertas que falten.
// La deduplicación es por (producto, tipo): mientras exista una alerta activa
// sin leer no se crea otra del mismo tipo. Devuelve cuántas se crearon.
func (uc *NotificationUseCase) GenerateAlerts(ctx context.Context) (int, error) {
	created := 0

	low, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return created, err
	}
	for _, row := range low {
		n, err := uc.createIfMissing(ctx, entity.Notification{
			ProductID: row.ProductID,
			Type:      entity.NotificationLowStock,
			Message: fmt.Sprintf("Stock bajo: %s tiene %s unidades (mínimo %s)",
				row.Name, row.Stock.String(), row.MinStock.String()),
		})
		if err != nil {
			return created, err
		}
		created += n
	}

	expiring, err := uc.lots.ListExpiring(ctx, domaininv.ExpiryWarningDays)
	if err != nil {
		return created, err
	}
	now := time.Now()
	for _, row := range expiring {
		notifType := domaininv.ClassifyExpiry(row.Lot.Expiration, now)
		if notifType == "" {
			continue
		}
		n, err := uc.createIfMissing(ctx, entity.Notification{
			ProductID: row.Lot.ProductID,
			LotID:     row.Lot.ID,
			Type:      notifType,
			Message: fmt.Sprintf("Vencimiento: lote %s de %s vence el %s",
				row.Lot.Code, row.ProductName, row.Lot.Expiration.Format("2006-01-02")),
		})
		if err != nil {
			return created, err
		}
		created += n
	}

	if created > 0 {
		uc.log.Info().Int("creadas", created).Msg("alertas de inventario generadas")
	}
	return created, nil
}

// Sweep genera alertas como efecto colateral de una consulta de inventario.
// Un fallo aquí no debe tumbar la consulta que lo disparó: se registra y la
// consulta sigue.
func (uc *NotificationUseCase) Sweep(ctx context.Context) {
	if _, err := uc.GenerateAlerts(ctx); err != nil {
		uc.log.Error().Err(err).Msg("generación de alertas")
	}
}

func (uc *NotificationUseCase) createIfMissing(ctx context.Context, n entity.Notification) (int, error) {
	exists, err := uc.notifications.ExistsUnread(ctx, n.ProductID, n.Type)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}
	n.ID = uuid.New().String()
	n.Priority = domaininv.PriorityFor(n.Type)
	n.Active = true
	n.CreatedAt = time.Now()
	if err := uc.notifications.Create(&n); err != nil {
		return 0, err
	}
	return 1, nil
}

// ListActive alertas activas, más recientes primero.
func (uc *NotificationUseCase) ListActive(page dto.PageRequest) ([]dto.NotificationResponse, error) {
	notifs, err := uc.notifications.ListActive(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			ProductID: n.ProductID,
			LotID:     n.LotID,
			Type:      n.Type,
			Message:   n.Message,
			Priority:  n.Priority,
			CreatedAt: n.CreatedAt,
			SeenAt:    n.SeenAt,
		})
	}
	return out, nil
}

// MarkRead marca una alerta como leída; leerla habilita una nueva del mismo
// tipo en el siguiente barrido.
func (uc *NotificationUseCase) MarkRead(id string) error {
	return uc.notifications.MarkRead(id)
}

// Dismiss descarta una alerta (borrado lógico).
func (uc *NotificationUseCase) Dismiss(id string) error {
	return uc.notifications.Dismiss(id)
}
