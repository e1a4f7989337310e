package inventory

import (
	"context"
	"time"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	domaininv "github.com/sigfarma/sigfarma-api/internal/domain/inventory"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// LotUseCase consultas de lotes y ventanas de vencimiento.
type LotUseCase struct {
	lots     repository.LotRepository
	products repository.ProductRepository
	alerts   *NotificationUseCase
}

// NewLotUseCase construye el caso de uso. alerts puede ser nil cuando la
// consulta no debe disparar alertas.
func NewLotUseCase(lots repository.LotRepository, products repository.ProductRepository, alerts *NotificationUseCase) *LotUseCase {
	return &LotUseCase{lots: lots, products: products, alerts: alerts}
}

// ListByProduct lotes de un producto, orden de vencimiento ascendente.
func (uc *LotUseCase) ListByProduct(productID string) ([]dto.LotResponse, error) {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	lots, err := uc.lots.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotResponse(l))
	}
	return out, nil
}

// ListExpiring lotes con existencia que vencen dentro de la ventana de
// advertencia, cada uno clasificado por severidad respecto a hoy. La
// consulta dispara de paso la generación de alertas.
func (uc *LotUseCase) ListExpiring(ctx context.Context) ([]dto.ExpiringLotResponse, error) {
	if uc.alerts != nil {
		uc.alerts.Sweep(ctx)
	}
	rows, err := uc.lots.ListExpiring(ctx, domaininv.ExpiryWarningDays)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.ExpiringLotResponse, 0, len(rows))
	for _, row := range rows {
		severity := domaininv.ClassifyExpiry(row.Lot.Expiration, now)
		if severity == "" {
			continue
		}
		out = append(out, dto.ExpiringLotResponse{
			LotResponse: toLotResponse(&row.Lot),
			ProductName: row.ProductName,
			Severity:    severity,
		})
	}
	return out, nil
}

func toLotResponse(l *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:         l.ID,
		ProductID:  l.ProductID,
		Code:       l.Code,
		Quantity:   l.Quantity,
		UnitCost:   l.UnitCost,
		Expiration: l.Expiration,
		Status:     l.Status,
	}
}
