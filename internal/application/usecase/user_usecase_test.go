package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/application/usecase"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

// memUserRepo repositorio en memoria para los tests del caso de uso.
type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(u *entity.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(u *entity.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Insert(*entity.AuditEntry) error { return nil }
func (nopAuditRepo) ListRecent(int, int) ([]*entity.AuditEntry, error) {
	return nil, nil
}

func newUserUC(repo *memUserRepo) *usecase.UserUseCase {
	return usecase.NewUserUseCase(repo, audit.NewRecorder(nopAuditRepo{}, logger.Nop()))
}

func seedAdmin(t *testing.T, repo *memUserRepo, id string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(&entity.User{
		ID:           id,
		Name:         "Admin",
		Email:        "admin@farmacia.co",
		PasswordHash: string(hash),
		Role:         entity.RoleAdministrador,
		Active:       true,
	}))
}

// Desactivar la propia cuenta del administrador en sesión debe fallar y
// dejar la cuenta activa.
func TestUpdate_AutodesactivacionProhibida(t *testing.T) {
	repo := newMemUserRepo()
	seedAdmin(t, repo, "admin-1")
	uc := newUserUC(repo)

	inactive := false
	_, err := uc.Update("admin-1", "admin-1", dto.UpdateUserRequest{Active: &inactive})
	assert.ErrorIs(t, err, domain.ErrSelfDeactivation)

	u, _ := repo.GetByID("admin-1")
	assert.True(t, u.Active, "la cuenta debe permanecer activa")
}

// Desactivar a otro usuario sí está permitido.
func TestUpdate_DesactivarOtroUsuario(t *testing.T) {
	repo := newMemUserRepo()
	seedAdmin(t, repo, "admin-1")
	seedOther := &entity.User{ID: "cajero-1", Email: "caja@farmacia.co", Role: entity.RoleCajero, Active: true}
	require.NoError(t, repo.Create(seedOther))
	uc := newUserUC(repo)

	inactive := false
	out, err := uc.Update("admin-1", "cajero-1", dto.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, out.Active)
}

func TestCreate_CorreoDuplicadoSinDistinguirMayusculas(t *testing.T) {
	repo := newMemUserRepo()
	seedAdmin(t, repo, "admin-1")
	uc := newUserUC(repo)

	_, err := uc.Create("admin-1", dto.CreateUserRequest{
		Name:     "Otro",
		Email:    "ADMIN@Farmacia.CO",
		Password: "clave12345",
		Role:     entity.RoleCajero,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreate_RolInvalido(t *testing.T) {
	uc := newUserUC(newMemUserRepo())
	_, err := uc.Create("admin-1", dto.CreateUserRequest{
		Name:     "X",
		Email:    "x@farmacia.co",
		Password: "clave12345",
		Role:     "gerente",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_GuardaCorreoEnMinusculas(t *testing.T) {
	repo := newMemUserRepo()
	uc := newUserUC(repo)
	out, err := uc.Create("admin-1", dto.CreateUserRequest{
		Name:     "Nueva",
		Email:    "Nueva@Farmacia.CO",
		Password: "clave12345",
		Role:     entity.RoleInventario,
	})
	require.NoError(t, err)
	assert.Equal(t, "nueva@farmacia.co", out.Email)
}
