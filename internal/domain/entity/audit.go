package entity

import (
	"encoding/json"
	"time"
)

// AuditEntry entrada del historial de cambios. Solo se inserta: nunca se
// actualiza ni se borra. Se escribe tras el commit de la operación que la
// origina (login, mutaciones de usuarios, aprobaciones, cancelaciones).
type AuditEntry struct {
	ID        string
	ActorID   string
	Action    string          // ej. "login", "recepcion.aprobar", "usuario.actualizar"
	Details   json.RawMessage // contexto estructurado de la acción
	CreatedAt time.Time
}
