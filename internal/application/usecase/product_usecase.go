package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// AlertSweeper genera alertas de inventario como efecto colateral de una
// consulta. Un error de generación no propaga a la consulta.
type AlertSweeper interface {
	Sweep(ctx context.Context)
}

// ProductUseCase CRUD de productos. El stock no se muta aquí: solo lo mueven
// recepciones aprobadas, ventas y bajas.
type ProductUseCase struct {
	repo   repository.ProductRepository
	alerts AlertSweeper
}

// NewProductUseCase construye el caso de uso. alerts puede ser nil cuando la
// consulta no debe disparar alertas.
func NewProductUseCase(repo repository.ProductRepository, alerts AlertSweeper) *ProductUseCase {
	return &ProductUseCase{repo: repo, alerts: alerts}
}

// Create crea un producto. Nace activo y sin lotes (stock 0).
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.MinStock.LessThan(decimal.Zero) || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Presentation: in.Presentation,
		UnitID:       in.UnitID,
		Controlled:   in.Controlled,
		Refrigerated: in.Refrigerated,
		MinStock:     in.MinStock,
		Price:        in.Price,
		ProviderID:   in.ProviderID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con su stock derivado de lotes.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos editables. El stock nunca se edita directo.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Presentation != "" {
		product.Presentation = in.Presentation
	}
	if in.UnitID != "" {
		product.UnitID = in.UnitID
	}
	if in.ProviderID != "" {
		product.ProviderID = in.ProviderID
	}
	if in.Controlled != nil {
		product.Controlled = *in.Controlled
	}
	if in.Refrigerated != nil {
		product.Refrigerated = *in.Refrigerated
	}
	if in.MinStock != nil {
		if in.MinStock.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Disable deshabilitado lógico: el producto conserva su historial.
func (uc *ProductUseCase) Disable(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(id, false)
}

// List busca productos; search aplica folding de acentos en el repositorio.
func (uc *ProductUseCase) List(search string, onlyActive bool, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.repo.List(search, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// ListLowStock productos activos por debajo de su stock mínimo. La consulta
// dispara de paso la generación de alertas.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockResponse, error) {
	if uc.alerts != nil {
		uc.alerts.Sweep(ctx)
	}
	rows, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockResponse{
			ProductID:  r.ProductID,
			Name:       r.Name,
			MinStock:   r.MinStock,
			Stock:      r.Stock,
			ProviderID: r.ProviderID,
		})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Presentation: p.Presentation,
		UnitID:       p.UnitID,
		Controlled:   p.Controlled,
		Refrigerated: p.Refrigerated,
		MinStock:     p.MinStock,
		StockTotal:   p.StockTotal,
		Price:        p.Price,
		ProviderID:   p.ProviderID,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
