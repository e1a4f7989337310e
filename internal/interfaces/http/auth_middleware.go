package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sigfarma/sigfarma-api/internal/application/authz"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/pkg/jwt"
)

// Locals keys para la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalCorreo = "correo"
	LocalRole   = "rol"
)

// CookieName nombre de la cookie de sesión.
const CookieName = "token"

// AuthMiddleware valida el token de sesión y extrae usuario, correo y rol a
// c.Locals. El token viaja en la cookie httpOnly `token`; como alternativa
// (el shell de escritorio en dev) se acepta Authorization: Bearer.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(CookieName)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
				}
				tokenString = strings.TrimSpace(parts[1])
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
		}
		userID, correo, rol, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalCorreo, correo)
		c.Locals(LocalRole, rol)
		return c.Next()
	}
}

// RequirePermission autoriza la operación contra la matriz de permisos usando
// el rol del token. Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(perm authz.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rol := GetRole(c)
		if rol == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "rol no encontrado en el token"})
		}
		if !authz.Allowed(perm, rol) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + rol + "' no puede ejecutar esta operación"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCorreo devuelve el correo del contexto.
func GetCorreo(c *fiber.Ctx) string {
	v := c.Locals(LocalCorreo)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
