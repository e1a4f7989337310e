package audit_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func (m *memAuditRepo) Insert(e *entity.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memAuditRepo) ListRecent(limit, offset int) ([]*entity.AuditEntry, error) {
	return nil, nil
}

func TestRecorder_EscribeEntradasEnOrden(t *testing.T) {
	repo := &memAuditRepo{}
	rec := audit.NewRecorder(repo, logger.Nop())

	rec.Record("u1", "login", map[string]string{"correo": "ana@farmacia.co"})
	rec.Record("u1", "usuario.actualizar", nil)
	rec.Close() // drena la cola

	require.Len(t, repo.entries, 2)
	assert.Equal(t, "login", repo.entries[0].Action)
	assert.Equal(t, "usuario.actualizar", repo.entries[1].Action)
	assert.Equal(t, "u1", repo.entries[0].ActorID)
	assert.NotEmpty(t, repo.entries[0].ID)
	assert.JSONEq(t, `{"correo":"ana@farmacia.co"}`, string(repo.entries[0].Details))
}

func TestRecorder_CloseEsIdempotente(t *testing.T) {
	rec := audit.NewRecorder(&memAuditRepo{}, logger.Nop())
	rec.Close()
	assert.NotPanics(t, func() { rec.Close() })
}
