// Package orders implementa los pedidos de compra: creación manual, ciclo de
// estados, generación automática por stock bajo y el enlace pedido→recepción.
package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/application/usecase"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
)

// Valores por defecto de la reposición automática cuando la configuración no
// define pedidos.factor_reposicion / pedidos.cantidad_minima.
var (
	defaultReplenishFactor = decimal.NewFromFloat(2.0)
	defaultMinOrderQty     = decimal.NewFromInt(1)
)

// OrderUseCase ciclo de vida de pedidos de compra.
type OrderUseCase struct {
	tx        repository.TxRunner
	orders    repository.OrderRepository
	products  repository.ProductRepository
	providers repository.ProviderRepository
	settings  *usecase.SettingUseCase
	recorder  *audit.Recorder
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	tx repository.TxRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	providers repository.ProviderRepository,
	settings *usecase.SettingUseCase,
	recorder *audit.Recorder,
) *OrderUseCase {
	return &OrderUseCase{
		tx:        tx,
		orders:    orders,
		products:  products,
		providers: providers,
		settings:  settings,
		recorder:  recorder,
	}
}

// Create registra un pedido manual en pendiente.
func (uc *OrderUseCase) Create(requesterID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
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

	now := time.Now()
	order := &entity.Order{
		ID:          uuid.New().String(),
		ProviderID:  in.ProviderID,
		RequesterID: requesterID,
		Status:      workflow.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
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
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	if err := uc.orders.Create(order); err != nil {
		return nil, err
	}
	uc.recorder.Record(requesterID, "pedido.crear", map[string]any{
		"pedido_id":    order.ID,
		"proveedor_id": order.ProviderID,
		"lineas":       len(order.Items),
	})
	return toOrderResponse(order), nil
}

// UpdateStatus avanza el pedido por su máquina de estados bajo bloqueo de
// fila. Los movimientos fuera de la tabla devuelven ErrInvalidTransition.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID, actorID, newStatus string) (*dto.OrderResponse, error) {
	var updated *entity.Order

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		status, err := workflow.Orders.Transition(order.Status, newStatus)
		if err != nil {
			return err
		}
		order.Status = status
		order.UpdatedAt = time.Now()
		if err := r.Orders.UpdateStatus(order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(actorID, "pedido.estado", map[string]string{
		"pedido_id": updated.ID,
		"estado":    updated.Status,
	})
	return toOrderResponse(updated), nil
}

// CreateReception crea la recepción pendiente de un pedido recibido y marca
// el pedido completado, en una sola transacción. Cada línea debe referir un
// producto del pedido; el cuerpo aporta código de lote y vencimiento.
func (uc *OrderUseCase) CreateReception(ctx context.Context, orderID, requesterID string, in dto.ReceptionFromOrderRequest) (*dto.ReceptionResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var created *entity.Reception

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != workflow.OrderReceived {
			return domain.ErrConflict
		}

		inOrder := make(map[string]bool, len(order.Items))
		for _, it := range order.Items {
			inOrder[it.ProductID] = true
		}

		rec := &entity.Reception{
			ID:          uuid.New().String(),
			ProviderID:  order.ProviderID,
			RequesterID: requesterID,
			OrderID:     order.ID,
			Status:      workflow.StatusPending,
			CreatedAt:   time.Now(),
		}
		for _, item := range in.Items {
			if !item.Quantity.GreaterThan(decimal.Zero) || !inOrder[item.ProductID] {
				return domain.ErrInvalidInput
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
		if err := r.Receptions.Create(rec); err != nil {
			return err
		}

		status, err := workflow.Orders.Transition(order.Status, workflow.OrderCompleted)
		if err != nil {
			return err
		}
		order.Status = status
		order.UpdatedAt = time.Now()
		if err := r.Orders.UpdateStatus(order); err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(requesterID, "pedido.recepcionar", map[string]string{
		"pedido_id":    orderID,
		"recepcion_id": created.ID,
	})
	return toReceptionResponse(created), nil
}

// AutoGenerate crea pedidos borrador para los productos bajo su stock mínimo,
// un pedido por proveedor. La cantidad pedida apunta a factor × stock mínimo
// menos la existencia actual, nunca por debajo de la cantidad mínima
// configurada. Productos ya cubiertos por un auto-pedido abierto se omiten;
// productos sin proveedor se reportan sin resolver.
func (uc *OrderUseCase) AutoGenerate(ctx context.Context, actorID string) (*dto.AutoOrderResponse, error) {
	factor := uc.settings.DecimalOr(entity.SettingReplenishFactor, defaultReplenishFactor)
	minQty := uc.settings.DecimalOr(entity.SettingMinOrderQty, defaultMinOrderQty)

	low, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.AutoOrderResponse{
		Orders:     []dto.OrderResponse{},
		Unresolved: []dto.UnresolvedProduct{},
	}
	byProvider := map[string][]entity.OrderItem{}
	for _, row := range low {
		open, err := uc.orders.HasOpenAutoOrder(ctx, row.ProductID)
		if err != nil {
			return nil, err
		}
		if open {
			continue
		}
		if row.ProviderID == "" {
			out.Unresolved = append(out.Unresolved, dto.UnresolvedProduct{
				ProductID: row.ProductID,
				Name:      row.Name,
				Reason:    "sin proveedor asignado",
			})
			continue
		}
		qty := row.MinStock.Mul(factor).Sub(row.Stock).Ceil()
		if qty.LessThan(minQty) {
			qty = minQty
		}
		byProvider[row.ProviderID] = append(byProvider[row.ProviderID], entity.OrderItem{
			ID:        uuid.New().String(),
			ProductID: row.ProductID,
			Quantity:  qty,
			UnitCost:  row.UnitCost,
		})
	}

	providerIDs := make([]string, 0, len(byProvider))
	for id := range byProvider {
		providerIDs = append(providerIDs, id)
	}
	sort.Strings(providerIDs)

	now := time.Now()
	for _, providerID := range providerIDs {
		items := byProvider[providerID]
		order := &entity.Order{
			ID:            uuid.New().String(),
			ProviderID:    providerID,
			RequesterID:   actorID,
			Status:        workflow.OrderPending,
			AutoGenerated: true,
			Items:         items,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := uc.orders.Create(order); err != nil {
			return nil, err
		}
		out.Orders = append(out.Orders, *toOrderResponse(order))
	}

	if len(out.Orders) > 0 {
		uc.recorder.Record(actorID, "pedido.auto_generar", map[string]any{
			"pedidos":      len(out.Orders),
			"factor":       factor.String(),
			"sin_resolver": len(out.Unresolved),
		})
	}
	return out, nil
}

// GetByID obtiene un pedido con sus líneas.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List pedidos con filtros.
func (uc *OrderUseCase) List(f repository.OrderFilters) ([]dto.OrderResponse, error) {
	orders, err := uc.orders.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toOrderResponse(o))
	}
	return out, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		})
	}
	return &dto.OrderResponse{
		ID:            o.ID,
		ProviderID:    o.ProviderID,
		RequesterID:   o.RequesterID,
		Status:        o.Status,
		AutoGenerated: o.AutoGenerated,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
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
		OrderID:     r.OrderID,
		Status:      r.Status,
		Items:       items,
		CreatedAt:   r.CreatedAt,
	}
}
