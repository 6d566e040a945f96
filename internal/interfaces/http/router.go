package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jportilla/tiendas-api/internal/application/analytics"
	"github.com/jportilla/tiendas-api/internal/application/auth"
	"github.com/jportilla/tiendas-api/internal/application/ledger"
	"github.com/jportilla/tiendas-api/internal/application/usecase"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/pkg/storage"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreUC     *usecase.StoreUseCase
	ProductUC   *usecase.ProductUseCase
	RecordUC    *ledger.RecordUseCase
	LedgerQuery *ledger.QueryUseCase
	DashboardUC *analytics.DashboardUseCase
	ActivityUC  *analytics.ActivityUseCase
	AuthUC      *auth.AuthUseCase
	Media       *storage.MediaStore
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Stores (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	stores := api.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC, deps.Media)
	stores.Get("/", storeHandler.List)
	stores.Post("/", storeHandler.Create)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Patch("/:id", storeHandler.Update)
	stores.Delete("/:id", storeHandler.Delete)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Media)
	products.Post("/", productHandler.Create)
	products.Get("/store/:store_id", productHandler.ListByStore)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Purchases y sales (protegido); mismo handler, distinto libro
	registerLedger(protected, "/purchases", NewLedgerHandler(entity.KindPurchase, deps.RecordUC, deps.LedgerQuery))
	registerLedger(protected, "/sales", NewLedgerHandler(entity.KindSale, deps.RecordUC, deps.LedgerQuery))

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ActivityUC)
	dashboard.Get("/store-summary/:store_id", dashboardHandler.StoreSummary)
	dashboard.Get("/top-store", dashboardHandler.TopStore)
	dashboard.Get("/recent-activity/:store_id", dashboardHandler.RecentActivity)
}

func registerLedger(router fiber.Router, prefix string, h *LedgerHandler) {
	g := router.Group(prefix)
	g.Post("/", h.Create)
	g.Post("/bulk", h.CreateBulk)
	g.Get("/store/:store_id", h.ListByStore)
	g.Get("/product/:product_id", h.ListByProduct)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
