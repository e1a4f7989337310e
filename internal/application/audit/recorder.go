// Package audit escribe el historial de cambios como efecto posterior al
// commit de la operación que lo origina. Los casos de uso emiten entradas
// después de confirmar su transacción; un worker las persiste en orden.
package audit

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

const queueSize = 256

// Recorder cola en memoria con un único worker de escritura. Una entrada
// perdida por caída del proceso es tolerable; una entrada escrita dentro de
// una transacción que luego hace rollback no lo es.
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger

	ch   chan entity.AuditEntry
	wg   sync.WaitGroup
	once sync.Once
}

// NewRecorder construye el recorder y arranca su worker.
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	r := &Recorder{
		repo: repo,
		log:  log,
		ch:   make(chan entity.AuditEntry, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for e := range r.ch {
		if err := r.repo.Insert(&e); err != nil {
			r.log.Error().Err(err).Str("action", e.Action).Msg("escritura de auditoría falló")
		}
	}
}

// Record encola una entrada de auditoría. details se serializa a JSON; si la
// cola está llena la entrada se descarta con un warn en lugar de bloquear la
// petición.
func (r *Recorder) Record(actorID, action string, details any) {
	var raw json.RawMessage
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			raw = b
		}
	}
	e := entity.AuditEntry{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		Details:   raw,
		CreatedAt: time.Now(),
	}
	select {
	case r.ch <- e:
	default:
		r.log.Warn().Str("action", action).Msg("cola de auditoría llena, entrada descartada")
	}
}

// Close drena la cola y detiene el worker. Llamar en el apagado del servidor.
func (r *Recorder) Close() {
	r.once.Do(func() { close(r.ch) })
	r.wg.Wait()
}
