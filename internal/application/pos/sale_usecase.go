// Package pos implementa la venta de mostrador: asignación FEFO de lotes al
// vender y restitución exacta al cancelar.
package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	domaininv "github.com/sigfarma/sigfarma-api/internal/domain/inventory"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// SaleUseCase ventas de mostrador.
type SaleUseCase struct {
	tx       repository.TxRunner
	sales    repository.SaleRepository
	recorder *audit.Recorder
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx repository.TxRunner, sales repository.SaleRepository, recorder *audit.Recorder) *SaleUseCase {
	return &SaleUseCase{tx: tx, sales: sales, recorder: recorder}
}

// Create registra una venta. En una única transacción bloquea los lotes de
// cada producto en orden de vencimiento, asigna FEFO (los lotes vencidos no
// se dispensan nunca), decrementa y persiste cabecera y líneas con su lote de
// origen. Si algún producto no alcanza, toda la venta se rechaza con
// ErrInsufficientStock y ningún lote queda tocado.
func (uc *SaleUseCase) Create(ctx context.Context, cashierID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var sale *entity.Sale

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		now := time.Now()
		sale = &entity.Sale{
			ID:        uuid.New().String(),
			CashierID: cashierID,
			Status:    entity.SaleStatusActive,
			Total:     decimal.Zero,
			CreatedAt: now,
		}

		for _, line := range in.Lines {
			if !line.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			product, err := r.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.Active {
				return domain.ErrNotFound
			}

			lots, err := r.Lots.ListForUpdateByProduct(ctx, line.ProductID)
			if err != nil {
				return err
			}
			sellable := lots[:0]
			for _, l := range lots {
				if !l.IsExpired(now) {
					sellable = append(sellable, l)
				}
			}

			allocs, err := domaininv.AllocateFEFO(sellable, line.Quantity)
			if err != nil {
				return err
			}
			for _, a := range allocs {
				a.Lot.Quantity = a.Lot.Quantity.Sub(a.Quantity)
				if a.Lot.Quantity.IsZero() {
					a.Lot.Status = entity.LotStatusDepleted
				}
				a.Lot.UpdatedAt = now
				if err := r.Lots.UpdateQuantity(a.Lot); err != nil {
					return err
				}
				item := entity.SaleItem{
					ID:        uuid.New().String(),
					SaleID:    sale.ID,
					ProductID: line.ProductID,
					LotID:     a.Lot.ID,
					Quantity:  a.Quantity,
					UnitPrice: product.Price,
				}
				sale.Items = append(sale.Items, item)
				sale.Total = sale.Total.Add(item.Subtotal())
			}
		}
		return r.Sales.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(cashierID, "venta.crear", map[string]any{
		"venta_id": sale.ID,
		"total":    sale.Total.String(),
		"lineas":   len(sale.Items),
	})
	return toSaleResponse(sale), nil
}

// Cancel revierte una venta restituyendo cada cantidad exactamente al lote
// del que salió. La guarda de "ya cancelada" (ErrConflict) y la restitución
// comparten transacción; un lote agotado que recupera existencia vuelve a
// activo.
func (uc *SaleUseCase) Cancel(ctx context.Context, saleID, actorID string) (*dto.SaleResponse, error) {
	var cancelled *entity.Sale

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusActive {
			return domain.ErrConflict
		}

		now := time.Now()
		for _, item := range sale.Items {
			lot, err := r.Lots.GetForUpdate(ctx, item.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			lot.Quantity = lot.Quantity.Add(item.Quantity)
			if lot.Status == entity.LotStatusDepleted {
				lot.Status = entity.LotStatusActive
			}
			lot.UpdatedAt = now
			if err := r.Lots.UpdateQuantity(lot); err != nil {
				return err
			}
		}

		sale.Status = entity.SaleStatusCancelled
		sale.CancelledAt = &now
		if err := r.Sales.UpdateStatus(sale); err != nil {
			return err
		}
		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(actorID, "venta.cancelar", map[string]string{
		"venta_id": cancelled.ID,
		"total":    cancelled.Total.String(),
	})
	return toSaleResponse(cancelled), nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List ventas con filtros (cajero, estado, rango de fechas).
func (uc *SaleUseCase) List(f repository.SaleFilters) ([]dto.SaleResponse, error) {
	sales, err := uc.sales.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			LotID:     it.LotID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return &dto.SaleResponse{
		ID:          s.ID,
		CashierID:   s.CashierID,
		Status:      s.Status,
		Total:       s.Total,
		Items:       items,
		CreatedAt:   s.CreatedAt,
		CancelledAt: s.CancelledAt,
	}
}
