package repository

import "github.com/sigfarma/sigfarma-api/internal/domain/entity"

// ProviderRepository puerto de persistencia de proveedores.
type ProviderRepository interface {
	Create(provider *entity.Provider) error
	GetByID(id string) (*entity.Provider, error)
	Update(provider *entity.Provider) error
	SetActive(id string, active bool) error
	List(onlyActive bool, limit, offset int) ([]*entity.Provider, error)
}

// UnitRepository puerto de persistencia de unidades de medida.
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id string) (*entity.Unit, error)
	List() ([]*entity.Unit, error)
	Delete(id string) error
}
