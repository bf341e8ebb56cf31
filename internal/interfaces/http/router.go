package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync-api/internal/application/auth"
	"github.com/jhoicas/stocksync-api/internal/application/restock"
	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/application/usecase"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ConnectionUC *usecase.ConnectionUseCase
	ProductUC    *usecase.ProductUseCase
	AlertUC      *usecase.AlertUseCase
	DashboardUC  *usecase.DashboardUseCase
	RestockUC    *restock.UseCase
	Orchestrator *appsync.Orchestrator
	SyncRuns     repository.SyncRunRepository
	OAuth        *OAuthHandler
	Webhooks     *WebhookHandler
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// OAuth y webhooks (públicos, con sus propias verificaciones de firma)
	app.Get("/oauth/install", deps.OAuth.Install)
	app.Get("/oauth/callback", deps.OAuth.Callback)
	app.Post("/webhooks/shopify", deps.Webhooks.VerifyHMAC(), deps.Webhooks.Receive)

	// Magic links de reposición (públicos, autenticados por el token opaco)
	restockHandler := NewRestockHandler(deps.RestockUC)
	app.Get("/restock/:token", restockHandler.PublicView)
	app.Post("/restock/:token", restockHandler.PublicProcess)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Connections (protegido; desconectar exige admin)
	connections := protected.Group("/connections")
	connectionHandler := NewConnectionHandler(deps.ConnectionUC)
	connections.Get("/", connectionHandler.List)
	connections.Get("/:id", connectionHandler.GetByID)
	connections.Get("/:id/vendors", connectionHandler.Vendors)
	connections.Put("/:id/vendors", connectionHandler.ApproveVendors)
	connections.Delete("/:id", RequireAdmin(), connectionHandler.Disconnect)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Put("/:id/levels/:location/threshold", productHandler.UpdateLevelThreshold)

	// Alerts (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.List)

	// Sync (protegido)
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.Orchestrator, deps.SyncRuns, deps.Log)
	syncGroup.Post("/run", syncHandler.Run)
	syncGroup.Get("/runs", syncHandler.ListRuns)
	syncGroup.Get("/runs/:id", syncHandler.GetRun)

	// Restock (protegido, lado operador)
	restockGroup := protected.Group("/restock-requests")
	restockGroup.Post("/", restockHandler.Create)
	restockGroup.Get("/", restockHandler.List)
	restockGroup.Get("/:id", restockHandler.GetByID)
	restockGroup.Post("/:id/send", restockHandler.Send)
	restockGroup.Get("/:id/pdf", restockHandler.OrderSheet)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}
