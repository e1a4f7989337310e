// Package authz define la matriz de permisos {operación, rol}. Las rutas no
// comparan roles ad hoc: declaran la operación que protegen y la matriz se
// resuelve una sola vez en el middleware de autorización.
package authz

import "github.com/sigfarma/sigfarma-api/internal/domain/entity"

// Permission operación protegida del sistema.
type Permission string

// Operaciones.
const (
	PermCatalogRead        Permission = "catalogo.leer"
	PermCatalogWrite       Permission = "catalogo.escribir"
	PermReceptionCreate    Permission = "recepcion.crear"
	PermReceptionRead      Permission = "recepcion.leer"
	PermReceptionApprove   Permission = "recepcion.aprobar"
	PermWriteOffCreate     Permission = "baja.crear"
	PermWriteOffRead       Permission = "baja.leer"
	PermWriteOffApprove    Permission = "baja.aprobar"
	PermOrderManage        Permission = "pedido.gestionar"
	PermSaleCreate         Permission = "venta.crear"
	PermSaleCancel         Permission = "venta.cancelar"
	PermSaleRead           Permission = "venta.leer"
	PermNotificationRead   Permission = "notificacion.leer"
	PermNotificationManage Permission = "notificacion.gestionar"
	PermSettingsRead       Permission = "configuracion.leer"
	PermSettingsWrite      Permission = "configuracion.escribir"
	PermUsersManage        Permission = "usuario.gestionar"
	PermDashboardRead      Permission = "dashboard.leer"
	PermAuditRead          Permission = "auditoria.leer"
)

var (
	admin = entity.RoleAdministrador
	caja  = entity.RoleCajero
	inv   = entity.RoleInventario
)

// matrix roles permitidos por operación. Única fuente de verdad del RBAC.
var matrix = map[Permission][]string{
	PermCatalogRead:        {admin, caja, inv},
	PermCatalogWrite:       {admin, inv},
	PermReceptionCreate:    {admin, inv},
	PermReceptionRead:      {admin, inv},
	PermReceptionApprove:   {admin},
	PermWriteOffCreate:     {admin, inv},
	PermWriteOffRead:       {admin, inv},
	PermWriteOffApprove:    {admin},
	PermOrderManage:        {admin, inv},
	PermSaleCreate:         {caja, admin},
	PermSaleCancel:         {admin},
	PermSaleRead:           {admin, caja},
	PermNotificationRead:   {admin, caja, inv},
	PermNotificationManage: {admin, inv},
	PermSettingsRead:       {admin, caja, inv},
	PermSettingsWrite:      {admin},
	PermUsersManage:        {admin},
	PermDashboardRead:      {admin, caja, inv},
	PermAuditRead:          {admin},
}

// Allowed indica si el rol puede ejecutar la operación.
func Allowed(perm Permission, role string) bool {
	for _, r := range matrix[perm] {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor devuelve los roles permitidos para la operación (copia).
func RolesFor(perm Permission) []string {
	roles := matrix[perm]
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}
