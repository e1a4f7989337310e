package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// ProviderUseCase CRUD de proveedores.
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *ProviderUseCase) Create(in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	now := time.Now()
	p := &entity.Provider{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIT:       in.NIT,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// Update actualiza un proveedor.
func (uc *ProviderUseCase) Update(id string, in dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.NIT != "" {
		p.NIT = in.NIT
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if in.Email != "" {
		p.Email = in.Email
	}
	if in.Address != "" {
		p.Address = in.Address
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// GetByID obtiene un proveedor.
func (uc *ProviderUseCase) GetByID(id string) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return toProviderResponse(p), nil
}

// List lista proveedores.
func (uc *ProviderUseCase) List(onlyActive bool, limit, offset int) ([]dto.ProviderResponse, error) {
	providers, err := uc.repo.List(onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, *toProviderResponse(p))
	}
	return out, nil
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		NIT:       p.NIT,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}

// UnitUseCase CRUD de unidades de medida.
type UnitUseCase struct {
	repo repository.UnitRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo}
}

// Create crea una unidad.
func (uc *UnitUseCase) Create(in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	u := &entity.Unit{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Symbol:    in.Symbol,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(u); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Symbol: u.Symbol}, nil
}

// List lista todas las unidades.
func (uc *UnitUseCase) List() ([]dto.UnitResponse, error) {
	units, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name, Symbol: u.Symbol})
	}
	return out, nil
}

// Delete elimina una unidad sin productos asociados.
func (uc *UnitUseCase) Delete(id string) error {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
