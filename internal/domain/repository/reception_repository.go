package repository

import (
	"context"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

// ReceptionFilters filtros de listado de recepciones.
type ReceptionFilters struct {
	Status     string
	ProviderID string
	Limit      int
	Offset     int
}

// ReceptionRepository puerto de persistencia de recepciones.
type ReceptionRepository interface {
	// Create persiste cabecera y líneas en una sola operación.
	Create(r *entity.Reception) error
	// GetByID devuelve cabecera con líneas.
	GetByID(id string) (*entity.Reception, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE): la guarda de
	// estado y la escritura del nuevo estado ocurren bajo el mismo bloqueo.
	GetForUpdate(ctx context.Context, id string) (*entity.Reception, error)
	UpdateStatus(r *entity.Reception) error
	// ListPending recepciones en pendiente, más antiguas primero (FIFO).
	ListPending() ([]*entity.Reception, error)
	List(f ReceptionFilters) ([]*entity.Reception, error)
}

// WriteOffFilters filtros de listado de bajas.
type WriteOffFilters struct {
	Status string
	Limit  int
	Offset int
}

// WriteOffRepository puerto de persistencia de bajas.
type WriteOffRepository interface {
	Create(w *entity.WriteOff) error
	GetByID(id string) (*entity.WriteOff, error)
	GetForUpdate(ctx context.Context, id string) (*entity.WriteOff, error)
	UpdateStatus(w *entity.WriteOff) error
	ListPending() ([]*entity.WriteOff, error)
	List(f WriteOffFilters) ([]*entity.WriteOff, error)
}
