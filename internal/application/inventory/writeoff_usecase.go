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

// WriteOffUseCase ciclo de vida de bajas de inventario.
type WriteOffUseCase struct {
	tx        repository.TxRunner
	writeOffs repository.WriteOffRepository
	lots      repository.LotRepository
	recorder  *audit.Recorder
}

// NewWriteOffUseCase construye el caso de uso.
func NewWriteOffUseCase(
	tx repository.TxRunner,
	writeOffs repository.WriteOffRepository,
	lots repository.LotRepository,
	recorder *audit.Recorder,
) *WriteOffUseCase {
	return &WriteOffUseCase{tx: tx, writeOffs: writeOffs, lots: lots, recorder: recorder}
}

// Create registra una solicitud de baja en pendiente. La cantidad debe ser
// positiva y no mayor que la existencia actual del lote; la verificación
// definitiva contra stock se repite al aprobar.
func (uc *WriteOffUseCase) Create(requesterID string, in dto.CreateWriteOffRequest) (*dto.WriteOffResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	lot, err := uc.lots.GetByID(in.LotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	if in.Quantity.GreaterThan(lot.Quantity) {
		return nil, domain.ErrInsufficientStock
	}

	wo := &entity.WriteOff{
		ID:          uuid.New().String(),
		LotID:       lot.ID,
		ProductID:   lot.ProductID,
		RequesterID: requesterID,
		Status:      workflow.StatusPending,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		CreatedAt:   time.Now(),
	}
	if err := uc.writeOffs.Create(wo); err != nil {
		return nil, err
	}
	return toWriteOffResponse(wo), nil
}

// Approve ejecuta la baja. En una única transacción: bloquea la solicitud y
// el lote, verifica que la solicitud siga pendiente (ErrConflict si no) y que
// el lote aún cubra la cantidad (la existencia puede haber caído por ventas
// desde que se solicitó), decrementa y marca completada. Si el lote queda en
// cero pasa a agotado.
func (uc *WriteOffUseCase) Approve(ctx context.Context, writeOffID, approverID string) (*dto.WriteOffResponse, error) {
	var approved *entity.WriteOff

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		wo, err := r.WriteOffs.GetForUpdate(ctx, writeOffID)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if wo.Status != workflow.StatusPending {
			return domain.ErrConflict
		}

		lot, err := r.Lots.GetForUpdate(ctx, wo.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if wo.Quantity.GreaterThan(lot.Quantity) {
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		lot.Quantity = lot.Quantity.Sub(wo.Quantity)
		if lot.Quantity.IsZero() {
			lot.Status = entity.LotStatusDepleted
		}
		lot.UpdatedAt = now
		if err := r.Lots.UpdateQuantity(lot); err != nil {
			return err
		}

		if _, err := workflow.Approval.Transition(wo.Status, workflow.StatusApproved); err != nil {
			return domain.ErrConflict
		}
		status, err := workflow.Approval.Transition(workflow.StatusApproved, workflow.StatusCompleted)
		if err != nil {
			return err
		}
		wo.Status = status
		wo.ApproverID = approverID
		wo.ResolvedAt = &now
		if err := r.WriteOffs.UpdateStatus(wo); err != nil {
			return err
		}
		approved = wo
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(approverID, "baja.aprobar", map[string]any{
		"baja_id":     approved.ID,
		"lote_id":     approved.LotID,
		"producto_id": approved.ProductID,
		"cantidad":    approved.Quantity.String(),
		"motivo":      approved.Reason,
	})
	return toWriteOffResponse(approved), nil
}

// Reject rechaza una baja pendiente con motivo. Sin efecto en stock.
func (uc *WriteOffUseCase) Reject(ctx context.Context, writeOffID, approverID, reason string) (*dto.WriteOffResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var rejected *entity.WriteOff

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		wo, err := r.WriteOffs.GetForUpdate(ctx, writeOffID)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if wo.Status != workflow.StatusPending {
			return domain.ErrConflict
		}
		status, err := workflow.Approval.Transition(wo.Status, workflow.StatusRejected)
		if err != nil {
			return domain.ErrConflict
		}
		now := time.Now()
		wo.Status = status
		wo.ApproverID = approverID
		wo.RejectReason = reason
		wo.ResolvedAt = &now
		if err := r.WriteOffs.UpdateStatus(wo); err != nil {
			return err
		}
		rejected = wo
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(approverID, "baja.rechazar", map[string]string{
		"baja_id": rejected.ID,
		"motivo":  reason,
	})
	return toWriteOffResponse(rejected), nil
}

// GetByID obtiene una baja.
func (uc *WriteOffUseCase) GetByID(id string) (*dto.WriteOffResponse, error) {
	wo, err := uc.writeOffs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, nil
	}
	return toWriteOffResponse(wo), nil
}

// ListPending bajas pendientes, más antiguas primero.
func (uc *WriteOffUseCase) ListPending() ([]dto.WriteOffResponse, error) {
	wos, err := uc.writeOffs.ListPending()
	if err != nil {
		return nil, err
	}
	return toWriteOffResponses(wos), nil
}

// List bajas con filtros.
func (uc *WriteOffUseCase) List(f repository.WriteOffFilters) ([]dto.WriteOffResponse, error) {
	wos, err := uc.writeOffs.List(f)
	if err != nil {
		return nil, err
	}
	return toWriteOffResponses(wos), nil
}

func toWriteOffResponses(wos []*entity.WriteOff) []dto.WriteOffResponse {
	out := make([]dto.WriteOffResponse, 0, len(wos))
	for _, wo := range wos {
		out = append(out, *toWriteOffResponse(wo))
	}
	return out
}

func toWriteOffResponse(wo *entity.WriteOff) *dto.WriteOffResponse {
	return &dto.WriteOffResponse{
		ID:           wo.ID,
		LotID:        wo.LotID,
		ProductID:    wo.ProductID,
		RequesterID:  wo.RequesterID,
		ApproverID:   wo.ApproverID,
		Status:       wo.Status,
		Quantity:     wo.Quantity,
		Reason:       wo.Reason,
		RejectReason: wo.RejectReason,
		CreatedAt:    wo.CreatedAt,
		ResolvedAt:   wo.ResolvedAt,
	}
}
