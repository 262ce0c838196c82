package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/billing-api/internal/config"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	SavedCart *handler.SavedCartHandler
	Invoice   *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.StaffRateLimiter
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
			"store":   deps.Cfg.Store.ID,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes
		auth := v1.Group("/auth")
		if deps.RateLimiter != nil {
			auth.Use(deps.RateLimiter.Middleware())
		}
		auth.POST("/login", h.Auth.Login)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/catalog/barcode/:barcode", h.Cart.LookupBarcode)
	protected.GET("/customers", h.Cart.SearchCustomers)

	ws := protected.Group("/workspaces/:ws")
	registerCartRoutes(ws, h)
	registerCheckoutRoutes(ws, h, deps)

	savedCarts := protected.Group("/saved-carts")
	{
		savedCarts.GET("", h.SavedCart.List)
		savedCarts.DELETE("/:id", h.SavedCart.Delete)
	}

	invoices := protected.Group("/invoices")
	{
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/receipt", h.Invoice.Receipt)
		invoices.POST("/:id/print", h.Invoice.Print)
	}
	protected.GET("/printer/status", h.Invoice.PrinterStatus)
}

func registerCartRoutes(ws *gin.RouterGroup, h *Handlers) {
	cart := ws.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.PUT("/customer", h.Cart.SetCustomer)
		cart.POST("/guest", h.Cart.SetGuest)

		cart.POST("/lines", h.Cart.Scan)
		cart.PATCH("/lines/:sku", h.Cart.UpdateLine)
		cart.DELETE("/lines/:sku", h.Cart.RemoveLine)
		cart.PUT("/lines/:sku/discount", h.Cart.SetLineDiscount)
		cart.DELETE("/lines/:sku/discount", h.Cart.ClearLineDiscount)

		cart.POST("/discounts", h.Cart.AddBillDiscount)
		cart.DELETE("/discounts/:index", h.Cart.RemoveBillDiscount)
		cart.POST("/discounts/refresh", h.Cart.RefreshDiscounts)
		cart.PUT("/taxes", h.Cart.SetTaxes)

		cart.POST("/save", h.SavedCart.Save)
	}

	ws.POST("/saved-carts/:id/resume", h.SavedCart.Resume)
}

func registerCheckoutRoutes(ws *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		TTL:  deps.Cfg.Billing.IdempotencyTTL,
		Log:  deps.Log,
	})

	checkout := ws.Group("/checkout")
	{
		checkout.POST("", h.Checkout.Begin)
		checkout.GET("", h.Checkout.Get)
		checkout.DELETE("", h.Checkout.Cancel)

		checkout.GET("/credit-notes", h.Checkout.ListCreditNotes)
		checkout.POST("/credit-notes/quote", h.Checkout.QuoteCreditNotes)

		checkout.POST("/payments", idempotent, h.Checkout.AddPayment)
		checkout.PUT("/payments/:index", h.Checkout.EditPayment)
		checkout.DELETE("/payments/:index", h.Checkout.RemovePayment)

		checkout.POST("/confirm", idempotent, h.Checkout.Confirm)
	}
}
