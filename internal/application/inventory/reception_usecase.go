// Package inventory contiene los casos de uso de recepciones, bajas, lotes
// y notificaciones de inventario. Las aprobaciones son transaccionales: la
// guarda de estado y el efecto en stock comparten transacción y bloqueo.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
)

// ReceptionUseCase ciclo de vida de recepciones de mercancía.
type ReceptionUseCase struct {
	tx         repository.TxRunner
	receptions repository.ReceptionRepository
	products   repository.ProductRepository
	providers  repository.ProviderRepository
	recorder   *audit.Recorder
}

// NewReceptionUseCase construye el caso de uso.
func NewReceptionUseCase(
	tx repository.TxRunner,
	receptions repository.ReceptionRepository,
	products repository.ProductRepository,
	providers repository.ProviderRepository,
	recorder *audit.Recorder,
) *ReceptionUseCase {
	return &ReceptionUseCase{
		tx:         tx,
		receptions: receptions,
		products:   products,
		providers:  providers,
		recorder:   recorder,
	}
}

// Create registra una recepción en pendiente. Exige al menos una línea con
// cantidad positiva y producto existente. No tiene efecto en stock.
func (uc *ReceptionUseCase) Create(requesterID string, in dto.CreateReceptionRequest) (*dto.ReceptionResponse, error) {
	provider, err := uc.providers.GetByID(in.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.ErrNotFound
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	rec := &entity.Reception{
		ID:          uuid.New().String(),
		ProviderID:  in.ProviderID,
		RequesterID: requesterID,
		Status:      workflow.StatusPending,
		CreatedAt:   time.Now(),
	}
	for _, item := range in.Items {
		if !item.Quantity.GreaterThan(decimal.Zero) || item.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, domain.ErrNotFound
		}
		rec.Items = append(rec.Items, entity.ReceptionItem{
			ID:          uuid.New().String(),
			ReceptionID: rec.ID,
			ProductID:   item.ProductID,
			LotCode:     item.LotCode,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
			Expiration:  item.Expiration,
		})
	}

	if err := uc.receptions.Create(rec); err != nil {
		return nil, err
	}
	return toReceptionResponse(rec), nil
}

// Approve aplica la recepción al stock. Dentro de una única transacción:
// bloquea la cabecera, verifica que siga en pendiente (ErrConflict si no,
// protege contra la doble aprobación del doble clic), y por cada línea crea
// el lote o bloquea e incrementa el existente (mismo producto + mismo
// vencimiento); el incremento se calcula sobre la fila bloqueada para no
// pisar decrementos concurrentes de ventas o bajas. La auditoría se emite
// después del commit.
func (uc *ReceptionUseCase) Approve(ctx context.Context, receptionID, approverID string) (*dto.ReceptionResponse, error) {
	var approved *entity.Reception

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		rec, err := r.Receptions.GetForUpdate(ctx, receptionID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status != workflow.StatusPending {
			return domain.ErrConflict
		}
		if _, err := workflow.Approval.Transition(rec.Status, workflow.StatusApproved); err != nil {
			return domain.ErrConflict
		}

		now := time.Now()
		for _, item := range rec.Items {
			lot, err := r.Lots.GetByProductAndExpirationForUpdate(ctx, item.ProductID, item.Expiration)
			if err != nil {
				return err
			}
			if lot == nil {
				lot = &entity.Lot{
					ID:         uuid.New().String(),
					ProductID:  item.ProductID,
					Code:       item.LotCode,
					Quantity:   item.Quantity,
					UnitCost:   item.UnitCost,
					Expiration: item.Expiration,
					Status:     entity.LotStatusActive,
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				if err := r.Lots.Create(lot); err != nil {
					return err
				}
			} else {
				lot.Quantity = lot.Quantity.Add(item.Quantity)
				lot.UnitCost = item.UnitCost
				lot.Status = entity.LotStatusActive
				lot.UpdatedAt = now
				if err := r.Lots.UpdateQuantity(lot); err != nil {
					return err
				}
			}
		}

		status, err := workflow.Approval.Transition(workflow.StatusApproved, workflow.StatusCompleted)
		if err != nil {
			return err
		}
		rec.Status = status
		rec.ApproverID = approverID
		rec.ResolvedAt = &now
		if err := r.Receptions.UpdateStatus(rec); err != nil {
			return err
		}
		approved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(approverID, "recepcion.aprobar", map[string]any{
		"recepcion_id": approved.ID,
		"proveedor_id": approved.ProviderID,
		"lineas":       len(approved.Items),
	})
	return toReceptionResponse(approved), nil
}

// Reject rechaza una recepción pendiente con motivo. Misma guarda atómica
// que Approve; sin efecto en stock.
func (uc *ReceptionUseCase) Reject(ctx context.Context, receptionID, approverID, reason string) (*dto.ReceptionResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var rejected *entity.Reception

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		rec, err := r.Receptions.GetForUpdate(ctx, receptionID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status != workflow.StatusPending {
			return domain.ErrConflict
		}
		status, err := workflow.Approval.Transition(rec.Status, workflow.StatusRejected)
		if err != nil {
			return domain.ErrConflict
		}
		now := time.Now()
		rec.Status = status
		rec.ApproverID = approverID
		rec.Reason = reason
		rec.ResolvedAt = &now
		if err := r.Receptions.UpdateStatus(rec); err != nil {
			return err
		}
		rejected = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(approverID, "recepcion.rechazar", map[string]string{
		"recepcion_id": rejected.ID,
		"motivo":       reason,
	})
	return toReceptionResponse(rejected), nil
}

// GetByID obtiene una recepción con sus líneas.
func (uc *ReceptionUseCase) GetByID(id string) (*dto.ReceptionResponse, error) {
	rec, err := uc.receptions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return toReceptionResponse(rec), nil
}

// ListPending recepciones pendientes, más antiguas primero (revisión FIFO).
func (uc *ReceptionUseCase) ListPending() ([]dto.ReceptionResponse, error) {
	recs, err := uc.receptions.ListPending()
	if err != nil {
		return nil, err
	}
	return toReceptionResponses(recs), nil
}

// List recepciones con filtros.
func (uc *ReceptionUseCase) List(f repository.ReceptionFilters) ([]dto.ReceptionResponse, error) {
	recs, err := uc.receptions.List(f)
	if err != nil {
		return nil, err
	}
	return toReceptionResponses(recs), nil
}

func toReceptionResponses(recs []*entity.Reception) []dto.ReceptionResponse {
	out := make([]dto.ReceptionResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, *toReceptionResponse(r))
	}
	return out
}

func toReceptionResponse(r *entity.Reception) *dto.ReceptionResponse {
	items := make([]dto.ReceptionItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ReceptionItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			LotCode:    it.LotCode,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			Expiration: it.Expiration,
		})
	}
	return &dto.ReceptionResponse{
		ID:          r.ID,
		ProviderID:  r.ProviderID,
		RequesterID: r.RequesterID,
		ApproverID:  r.ApproverID,
		OrderID:     r.OrderID,
		Status:      r.Status,
		Reason:      r.Reason,
		Items:       items,
		CreatedAt:   r.CreatedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}
