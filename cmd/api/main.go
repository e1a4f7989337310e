package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/sigfarma/sigfarma-api/internal/application/analytics"
	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/auth"
	appinventory "github.com/sigfarma/sigfarma-api/internal/application/inventory"
	"github.com/sigfarma/sigfarma-api/internal/application/orders"
	"github.com/sigfarma/sigfarma-api/internal/application/pos"
	"github.com/sigfarma/sigfarma-api/internal/application/usecase"
	infrapdf "github.com/sigfarma/sigfarma-api/internal/infrastructure/pdf"
	"github.com/sigfarma/sigfarma-api/internal/infrastructure/postgres"
	httpRouter "github.com/sigfarma/sigfarma-api/internal/interfaces/http"
	"github.com/sigfarma/sigfarma-api/pkg/config"
	"github.com/sigfarma/sigfarma-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool; las operaciones transaccionales usan txRunner.
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	receptionRepo := postgres.NewReceptionRepository(pool)
	writeOffRepo := postgres.NewWriteOffRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Auditoría asíncrona: las acciones se registran después del commit.
	recorder := audit.NewRecorder(auditRepo, log.WithComponent("auditoria"))
	defer recorder.Close()

	authUC := auth.NewAuthUseCase(userRepo, recorder, auth.SessionConfig{
		Secret:  cfg.Session.Secret,
		ExpDays: cfg.Session.ExpDays,
		Issuer:  cfg.Session.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, recorder)
	// Las alertas se generan como efecto colateral de las consultas de stock
	// bajo y vencimientos; el endpoint /notifications/generate permite
	// forzarlas a demanda.
	notificationUC := appinventory.NewNotificationUseCase(notificationRepo, productRepo, lotRepo, log.WithComponent("alertas"))
	productUC := usecase.NewProductUseCase(productRepo, notificationUC)
	providerUC := usecase.NewProviderUseCase(providerRepo)
	unitUC := usecase.NewUnitUseCase(unitRepo)
	settingUC := usecase.NewSettingUseCase(settingRepo, recorder)
	lotUC := appinventory.NewLotUseCase(lotRepo, productRepo, notificationUC)
	receptionUC := appinventory.NewReceptionUseCase(txRunner, receptionRepo, productRepo, providerRepo, recorder)
	writeOffUC := appinventory.NewWriteOffUseCase(txRunner, writeOffRepo, lotRepo, recorder)
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, productRepo, providerRepo, settingUC, recorder)
	saleUC := pos.NewSaleUseCase(txRunner, saleRepo, recorder)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)
	reportUC := appanalytics.NewReportUseCase(analyticsRepo, infrapdf.NewMarotoPDFGenerator())
	auditQuery := audit.NewQuery(auditRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.ClientOrigin,
		AllowCredentials: true,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SIGFARMA API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		ProviderUC:     providerUC,
		UnitUC:         unitUC,
		UserUC:         userUC,
		SettingUC:      settingUC,
		LotUC:          lotUC,
		ReceptionUC:    receptionUC,
		WriteOffUC:     writeOffUC,
		NotificationUC: notificationUC,
		OrderUC:        orderUC,
		SaleUC:         saleUC,
		DashboardUC:    dashboardUC,
		ReportUC:       reportUC,
		AuditQuery:     auditQuery,
		JWTSecret:      cfg.Session.Secret,
		CookieDays:     cfg.Session.ExpDays,
		SecureCookies:  cfg.App.IsProduction(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
