package audit

import (
	"encoding/json"
	"time"

	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// EntryDTO entrada del historial para la API.
type EntryDTO struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actor_id"`
	Action    string          `json:"accion"`
	Details   json.RawMessage `json:"detalles,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Query lectura del historial de cambios.
type Query struct {
	repo repository.AuditRepository
}

// NewQuery construye la consulta.
func NewQuery(repo repository.AuditRepository) *Query {
	return &Query{repo: repo}
}

// ListRecent entradas más recientes primero.
func (q *Query) ListRecent(limit, offset int) ([]EntryDTO, error) {
	entries, err := q.repo.ListRecent(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryDTO{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
