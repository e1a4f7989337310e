package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/sigfarma/sigfarma-api/internal/application/analytics"
	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/auth"
	"github.com/sigfarma/sigfarma-api/internal/application/authz"
	"github.com/sigfarma/sigfarma-api/internal/application/inventory"
	"github.com/sigfarma/sigfarma-api/internal/application/orders"
	"github.com/sigfarma/sigfarma-api/internal/application/pos"
	"github.com/sigfarma/sigfarma-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	ProviderUC     *usecase.ProviderUseCase
	UnitUC         *usecase.UnitUseCase
	UserUC         *usecase.UserUseCase
	SettingUC      *usecase.SettingUseCase
	LotUC          *inventory.LotUseCase
	ReceptionUC    *inventory.ReceptionUseCase
	WriteOffUC     *inventory.WriteOffUseCase
	NotificationUC *inventory.NotificationUseCase
	OrderUC        *orders.OrderUseCase
	SaleUC         *pos.SaleUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	ReportUC       *appanalytics.ReportUseCase
	AuditQuery     *audit.Query
	JWTSecret      string
	CookieDays     int
	SecureCookies  bool
}

// Router registra las rutas de la API. Todo excepto login va detrás del
// middleware de sesión; cada grupo declara la operación de la matriz de
// permisos que lo protege.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; logout y me requieren sesión)
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieDays, deps.SecureCookies)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren la cookie `token` o Bearer)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	lotHandler := NewLotHandler(deps.LotUC)
	products := protected.Group("/products")
	products.Get("/", RequirePermission(authz.PermCatalogRead), productHandler.List)
	products.Get("/low-stock", RequirePermission(authz.PermCatalogRead), productHandler.ListLowStock)
	products.Get("/:id", RequirePermission(authz.PermCatalogRead), productHandler.GetByID)
	products.Get("/:id/lots", RequirePermission(authz.PermCatalogRead), lotHandler.ListByProduct)
	products.Post("/", RequirePermission(authz.PermCatalogWrite), productHandler.Create)
	products.Put("/:id", RequirePermission(authz.PermCatalogWrite), productHandler.Update)
	products.Delete("/:id", RequirePermission(authz.PermCatalogWrite), productHandler.Disable)

	// Lotes
	lots := protected.Group("/lots")
	lots.Get("/expiring", RequirePermission(authz.PermCatalogRead), lotHandler.ListExpiring)

	// Proveedores
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers := protected.Group("/providers")
	providers.Get("/", RequirePermission(authz.PermCatalogRead), providerHandler.List)
	providers.Get("/:id", RequirePermission(authz.PermCatalogRead), providerHandler.GetByID)
	providers.Post("/", RequirePermission(authz.PermCatalogWrite), providerHandler.Create)
	providers.Put("/:id", RequirePermission(authz.PermCatalogWrite), providerHandler.Update)

	// Unidades de medida
	unitHandler := NewUnitHandler(deps.UnitUC)
	units := protected.Group("/units")
	units.Get("/", RequirePermission(authz.PermCatalogRead), unitHandler.List)
	units.Post("/", RequirePermission(authz.PermCatalogWrite), unitHandler.Create)
	units.Delete("/:id", RequirePermission(authz.PermCatalogWrite), unitHandler.Delete)

	// Recepciones
	receptionHandler := NewReceptionHandler(deps.ReceptionUC)
	receptions := protected.Group("/receptions")
	receptions.Get("/", RequirePermission(authz.PermReceptionRead), receptionHandler.List)
	receptions.Get("/pending", RequirePermission(authz.PermReceptionRead), receptionHandler.ListPending)
	receptions.Get("/:id", RequirePermission(authz.PermReceptionRead), receptionHandler.GetByID)
	receptions.Post("/", RequirePermission(authz.PermReceptionCreate), receptionHandler.Create)
	receptions.Post("/:id/approve", RequirePermission(authz.PermReceptionApprove), receptionHandler.Approve)
	receptions.Post("/:id/reject", RequirePermission(authz.PermReceptionApprove), receptionHandler.Reject)

	// Bajas
	writeOffHandler := NewWriteOffHandler(deps.WriteOffUC)
	bajas := protected.Group("/bajas")
	bajas.Get("/", RequirePermission(authz.PermWriteOffRead), writeOffHandler.List)
	bajas.Get("/pending", RequirePermission(authz.PermWriteOffRead), writeOffHandler.ListPending)
	bajas.Get("/:id", RequirePermission(authz.PermWriteOffRead), writeOffHandler.GetByID)
	bajas.Post("/", RequirePermission(authz.PermWriteOffCreate), writeOffHandler.Create)
	bajas.Post("/:id/approve", RequirePermission(authz.PermWriteOffApprove), writeOffHandler.Approve)
	bajas.Post("/:id/reject", RequirePermission(authz.PermWriteOffApprove), writeOffHandler.Reject)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders", RequirePermission(authz.PermOrderManage))
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Post("/auto-generate", orderHandler.AutoGenerate)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/status", orderHandler.UpdateStatus)
	ordersGroup.Post("/:id/reception", orderHandler.CreateReception)

	// Ventas (POS)
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales := protected.Group("/sales")
	sales.Get("/", RequirePermission(authz.PermSaleRead), saleHandler.List)
	sales.Get("/:id", RequirePermission(authz.PermSaleRead), saleHandler.GetByID)
	sales.Post("/", RequirePermission(authz.PermSaleCreate), saleHandler.Create)
	sales.Post("/:id/cancel", RequirePermission(authz.PermSaleCancel), saleHandler.Cancel)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := protected.Group("/notifications")
	notifications.Get("/", RequirePermission(authz.PermNotificationRead), notificationHandler.List)
	notifications.Post("/generate", RequirePermission(authz.PermNotificationManage), notificationHandler.Generate)
	notifications.Post("/:id/read", RequirePermission(authz.PermNotificationRead), notificationHandler.MarkRead)
	notifications.Delete("/:id", RequirePermission(authz.PermNotificationManage), notificationHandler.Dismiss)

	// Configuración
	settingHandler := NewSettingHandler(deps.SettingUC)
	settings := protected.Group("/settings")
	settings.Get("/", RequirePermission(authz.PermSettingsRead), settingHandler.List)
	settings.Get("/:key", RequirePermission(authz.PermSettingsRead), settingHandler.Get)
	settings.Put("/:key", RequirePermission(authz.PermSettingsWrite), settingHandler.Upsert)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", RequirePermission(authz.PermUsersManage))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportUC)
	protected.Get("/dashboard/summary", RequirePermission(authz.PermDashboardRead), dashboardHandler.GetSummary)
	protected.Get("/reports/sales", RequirePermission(authz.PermDashboardRead), dashboardHandler.GetSalesReport)
	protected.Get("/reports/sales/pdf", RequirePermission(authz.PermDashboardRead), dashboardHandler.GetSalesReportPDF)

	// Auditoría
	auditHandler := NewAuditHandler(deps.AuditQuery)
	protected.Get("/audit", RequirePermission(authz.PermAuditRead), auditHandler.List)
}
