package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/auth"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	apphttp "github.com/sigfarma/sigfarma-api/internal/interfaces/http"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

// memUserRepo repositorio de usuarios en memoria para las pruebas de login.
type memUserRepo struct {
	byID map[string]*entity.User
}

func (m *memUserRepo) Create(u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*entity.User, error) {
	return m.byID[id], nil
}

func (m *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) List(limit, offset int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Insert(*entity.AuditEntry) error { return nil }
func (nopAuditRepo) ListRecent(int, int) ([]*entity.AuditEntry, error) {
	return nil, nil
}

// buildAuthApp monta /api/auth con un usuario cajero activo sembrado.
func buildAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memUserRepo{byID: map[string]*entity.User{
		testUserID: {
			ID:           testUserID,
			Name:         "Cajera de Prueba",
			Email:        "cajera@sigfarma.local",
			PasswordHash: string(hash),
			Role:         entity.RoleCajero,
			Active:       true,
		},
	}}

	recorder := audit.NewRecorder(nopAuditRepo{}, logger.Nop())
	t.Cleanup(recorder.Close)

	uc := auth.NewAuthUseCase(repo, recorder, auth.SessionConfig{
		Secret:  testJWTSecret,
		ExpDays: testExpDays,
		Issuer:  testIssuer,
	})
	handler := apphttp.NewAuthHandler(uc, testExpDays, false)

	app := fiber.New()
	app.Post("/api/auth/login", handler.Login)
	app.Post("/api/auth/logout", apphttp.AuthMiddleware(testJWTSecret), handler.Logout)
	app.Get("/api/auth/me", apphttp.AuthMiddleware(testJWTSecret), handler.Me)
	return app
}

func postLogin(t *testing.T, app *fiber.App, correo, password string) *http.Response {
	t.Helper()
	body, err := json.Marshal(map[string]string{"correo": correo, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == apphttp.CookieName {
			return ck
		}
	}
	return nil
}

// El login correcto setea la cookie httpOnly SameSite=Strict y devuelve el usuario.
func TestLogin_SeteaCookieDeSesion(t *testing.T) {
	app := buildAuthApp(t)

	resp := postLogin(t, app, "cajera@sigfarma.local", "secreto123")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	ck := sessionCookie(resp)
	require.NotNil(t, ck, "el login debe setear la cookie de sesión")
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly, "la cookie debe ser httpOnly")
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "usuario")
	assert.Contains(t, body, "token")
}

// El correo no distingue mayúsculas.
func TestLogin_CorreoInsensibleAMayusculas(t *testing.T) {
	app := buildAuthApp(t)

	resp := postLogin(t, app, "CAJERA@SIGFARMA.LOCAL", "secreto123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Contraseña incorrecta y usuario inexistente responden el mismo 401.
func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	app := buildAuthApp(t)

	casos := []struct {
		nombre   string
		correo   string
		password string
	}{
		{"password incorrecto", "cajera@sigfarma.local", "otra-clave"},
		{"usuario inexistente", "nadie@sigfarma.local", "secreto123"},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			resp := postLogin(t, app, tc.correo, tc.password)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Nil(t, sessionCookie(resp), "no debe setearse cookie con credenciales inválidas")
		})
	}
}

// La cookie emitida por el login autentica /auth/me.
func TestLogin_CookieAutenticaMe(t *testing.T) {
	app := buildAuthApp(t)

	login := postLogin(t, app, "cajera@sigfarma.local", "secreto123")
	defer login.Body.Close()
	ck := sessionCookie(login)
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "cajera@sigfarma.local", body["correo"])
	assert.Equal(t, entity.RoleCajero, body["rol"])
}

// El logout expira la cookie.
func TestLogout_ExpiraLaCookie(t *testing.T) {
	app := buildAuthApp(t)

	login := postLogin(t, app, "cajera@sigfarma.local", "secreto123")
	defer login.Body.Close()
	ck := sessionCookie(login)
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	expired := sessionCookie(resp)
	require.NotNil(t, expired, "el logout debe re-setear la cookie")
	assert.Empty(t, expired.Value)
	assert.True(t, expired.Expires.Before(time.Now()), "la cookie debe quedar expirada")
}
