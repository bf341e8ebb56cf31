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

	"github.com/jhoicas/stocksync-api/internal/application/auth"
	"github.com/jhoicas/stocksync-api/internal/application/restock"
	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/stocksync-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stocksync-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stocksync-api/internal/infrastructure/shopify"
	httpRouter "github.com/jhoicas/stocksync-api/internal/interfaces/http"
	"github.com/jhoicas/stocksync-api/pkg/config"
	"github.com/jhoicas/stocksync-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	connectionRepo := postgres.NewConnectionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	runRepo := postgres.NewSyncRunRepository(pool)
	restockRepo := postgres.NewRestockRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Gateway hacia el Admin API de la plataforma
	client := shopify.NewClient(cfg.Shopify.APIVersion, cfg.Sync.MaxRetries)
	gateway := shopify.NewGateway(client)

	orchestrator := appsync.NewOrchestrator(
		connectionRepo, productRepo, levelRepo, alertRepo, runRepo,
		gateway, log,
		appsync.Config{
			PageSize:         cfg.Sync.PageSize,
			MaxPages:         cfg.Sync.MaxPages,
			DefaultThreshold: cfg.Sync.DefaultThreshold,
		},
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	connectionUC := usecase.NewConnectionUseCase(connectionRepo, gateway, txRunner)
	productUC := usecase.NewProductUseCase(productRepo, levelRepo)
	alertUC := usecase.NewAlertUseCase(alertRepo, productRepo)
	dashboardUC := usecase.NewDashboardUseCase(connectionRepo, productRepo, alertRepo, runRepo, restockRepo)

	restockUC := restock.NewUseCase(
		connectionRepo, productRepo, levelRepo, restockRepo,
		txRunner, infrapdf.NewOrderSheetRenderer(),
		restock.Config{
			TokenTTL:      time.Duration(cfg.Sync.RestockTTLHours) * time.Hour,
			PublicBaseURL: cfg.HTTP.PublicBaseURL,
		},
	)

	oauthHandler := httpRouter.NewOAuthHandler(
		shopify.NewOAuthService(),
		shopify.NewStateStore(0),
		connectionRepo,
		cfg.Shopify,
		cfg.HTTP.PublicBaseURL,
		log,
	)
	webhookHandler := httpRouter.NewWebhookHandler(connectionRepo, txRunner, cfg.Shopify.APISecret, log)

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
		Title:    "StockSync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ConnectionUC: connectionUC,
		ProductUC:    productUC,
		AlertUC:      alertUC,
		DashboardUC:  dashboardUC,
		RestockUC:    restockUC,
		Orchestrator: orchestrator,
		SyncRuns:     runRepo,
		OAuth:        oauthHandler,
		Webhooks:     webhookHandler,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
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
