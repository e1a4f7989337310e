package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/application/authz"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	apphttp "github.com/sigfarma/sigfarma-api/internal/interfaces/http"
	pkgjwt "github.com/sigfarma/sigfarma-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCorreo    = "test@sigfarma.local"
	testIssuer    = "sigfarma-test"
	testExpDays   = 1
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el token y cargar locals
//   - RequirePermission para autorizar contra la matriz de permisos
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(perm authz.Permission) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(perm),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":  true,
				"rol": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un token de sesión con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCorreo, role, testIssuer, testExpDays)
	require.NoError(t, err, "debe generarse un token válido")
	return tok
}

// doRequest lanza una petición GET /protected con el header indicado.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

// El administrador puede gestionar usuarios → HTTP 200.
func TestRequirePermission_AdminGestionaUsuarios(t *testing.T) {
	app := buildTestApp(authz.PermUsersManage)
	resp := doRequest(t, app, "Bearer "+tokenForRole(t, entity.RoleAdministrador))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"administrador debe poder acceder a la gestión de usuarios")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdministrador, body["rol"])
}

// El cajero puede registrar ventas (operación multi-rol) → HTTP 200.
func TestRequirePermission_CajeroRegistraVentas(t *testing.T) {
	app := buildTestApp(authz.PermSaleCreate)
	resp := doRequest(t, app, "Bearer "+tokenForRole(t, entity.RoleCajero))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"cajero debe poder registrar ventas")
}

// El cajero no puede aprobar recepciones → HTTP 403 Forbidden.
func TestRequirePermission_CajeroBloqueadoEnAprobaciones(t *testing.T) {
	app := buildTestApp(authz.PermReceptionApprove)
	resp := doRequest(t, app, "Bearer "+tokenForRole(t, entity.RoleCajero))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"cajero no debe poder aprobar recepciones")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// El rol inventario no puede cancelar ventas → HTTP 403.
func TestRequirePermission_InventarioBloqueadoEnCancelaciones(t *testing.T) {
	app := buildTestApp(authz.PermSaleCancel)
	resp := doRequest(t, app, "Bearer "+tokenForRole(t, entity.RoleInventario))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Sin header Authorization ni cookie → HTTP 401 MISSING_TOKEN.
func TestRequirePermission_SinSesion_Retorna401(t *testing.T) {
	app := buildTestApp(authz.PermCatalogRead)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequirePermission_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(authz.PermCatalogRead)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — cookie de sesión y extracción de claims
// ──────────────────────────────────────────────────────────────────────────────

// El token puede viajar en la cookie httpOnly `token` en vez del header.
func TestAuthMiddleware_AceptaCookieDeSesion(t *testing.T) {
	app := buildTestApp(authz.PermCatalogRead)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.CookieName, Value: tokenForRole(t, entity.RoleInventario)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"la cookie de sesión debe autenticar igual que el Bearer")
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"correo":  apphttp.GetCorreo(c),
			"rol":     apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenForRole(t, entity.RoleAdministrador))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCorreo, body["correo"])
	assert.Equal(t, entity.RoleAdministrador, body["rol"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse con rol
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCorreo, entity.RoleCajero, testIssuer, testExpDays)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, correo, rol, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCorreo, correo)
	assert.Equal(t, entity.RoleCajero, rol)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con vigencia -1 día (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCorreo, entity.RoleAdministrador, testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCorreo, entity.RoleAdministrador, testIssuer, testExpDays)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
