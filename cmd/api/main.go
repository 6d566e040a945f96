package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jportilla/tiendas-api/internal/application/analytics"
	"github.com/jportilla/tiendas-api/internal/application/auth"
	"github.com/jportilla/tiendas-api/internal/application/ledger"
	"github.com/jportilla/tiendas-api/internal/application/usecase"
	"github.com/jportilla/tiendas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jportilla/tiendas-api/internal/interfaces/http"
	"github.com/jportilla/tiendas-api/pkg/config"
	"github.com/jportilla/tiendas-api/pkg/logger"
	"github.com/jportilla/tiendas-api/pkg/storage"
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

	media, err := storage.NewMediaStore(cfg.Media.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("preparar directorio de medios")
	}

	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	storeUC := usecase.NewStoreUseCase(storeRepo)
	productUC := usecase.NewProductUseCase(productRepo, storeRepo)
	recordUC := ledger.NewRecordUseCase(txRunner)
	ledgerQuery := ledger.NewQueryUseCase(ledgerRepo)
	dashboardUC := analytics.NewDashboardUseCase(storeRepo, analyticsRepo)
	activityUC := analytics.NewActivityUseCase(storeRepo, analyticsRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tiendas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Imágenes subidas (tiendas y productos)
	app.Static(storage.URLPrefix, media.Root())

	httpRouter.Router(app, httpRouter.RouterDeps{
		StoreUC:     storeUC,
		ProductUC:   productUC,
		RecordUC:    recordUC,
		LedgerQuery: ledgerQuery,
		DashboardUC: dashboardUC,
		ActivityUC:  activityUC,
		AuthUC:      authUC,
		Media:       media,
		JWTSecret:   cfg.JWT.Secret,
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
