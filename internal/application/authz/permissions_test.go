package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sigfarma/sigfarma-api/internal/application/authz"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
)

func TestAllowed_AprobacionesSoloAdministrador(t *testing.T) {
	for _, perm := range []authz.Permission{
		authz.PermReceptionApprove,
		authz.PermWriteOffApprove,
		authz.PermSaleCancel,
		authz.PermUsersManage,
		authz.PermSettingsWrite,
	} {
		assert.True(t, authz.Allowed(perm, entity.RoleAdministrador), "%s: administrador", perm)
		assert.False(t, authz.Allowed(perm, entity.RoleCajero), "%s: cajero no debe poder", perm)
		assert.False(t, authz.Allowed(perm, entity.RoleInventario), "%s: inventario no debe poder", perm)
	}
}

func TestAllowed_VentasDeCajero(t *testing.T) {
	assert.True(t, authz.Allowed(authz.PermSaleCreate, entity.RoleCajero))
	assert.True(t, authz.Allowed(authz.PermSaleCreate, entity.RoleAdministrador))
	assert.False(t, authz.Allowed(authz.PermSaleCreate, entity.RoleInventario))
}

func TestAllowed_RecepcionesDeInventario(t *testing.T) {
	assert.True(t, authz.Allowed(authz.PermReceptionCreate, entity.RoleInventario))
	assert.False(t, authz.Allowed(authz.PermReceptionCreate, entity.RoleCajero))
}

func TestAllowed_RolDesconocido(t *testing.T) {
	assert.False(t, authz.Allowed(authz.PermCatalogRead, "superusuario"))
	assert.False(t, authz.Allowed(authz.PermCatalogRead, ""))
}

func TestRolesFor_DevuelveCopia(t *testing.T) {
	roles := authz.RolesFor(authz.PermSaleCancel)
	assert.Equal(t, []string{entity.RoleAdministrador}, roles)
	roles[0] = "mutado"
	assert.Equal(t, []string{entity.RoleAdministrador}, authz.RolesFor(authz.PermSaleCancel),
		"mutar la copia no debe afectar la matriz")
}
