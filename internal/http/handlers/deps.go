package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"

	applog "orderdesk/internal/log"
	"orderdesk/internal/notify"
	"orderdesk/internal/repos"
	"orderdesk/internal/services"
)

type Deps struct {
	CatalogHandler   *CatalogHandler
	CustomerHandler  *CustomerHandler
	PromotionHandler *PromotionHandler
	OrderHandler     *OrderHandler
	ReportHandler    *ReportHandler
}

func NewDeps(db *sqlx.DB, notifier notify.Notifier) *Deps {
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	supRepo := repos.NewSupplierRepo(db)
	promoRepo := repos.NewPromotionRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	shipRepo := repos.NewShipmentRepo(db)
	invLogRepo := repos.NewInventoryLogRepo(db)

	pricing := services.NewPricingService()
	orderSvc := services.NewOrderService(prodRepo, custRepo, supRepo, promoRepo,
		orderRepo, shipRepo, invLogRepo, pricing, notifier)
	invSvc := services.NewInventoryService(prodRepo, invLogRepo)
	reportSvc := services.NewReportingService(custRepo, orderRepo, prodRepo)
	mktSvc := services.NewMarketingService(custRepo, orderRepo, notifier)

	return &Deps{
		CatalogHandler:   &CatalogHandler{Products: prodRepo, Suppliers: supRepo, Inv: invSvc},
		CustomerHandler:  &CustomerHandler{Customers: custRepo, Orders: orderSvc, Reports: reportSvc},
		PromotionHandler: &PromotionHandler{Promos: promoRepo},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		ReportHandler:    &ReportHandler{Reports: reportSvc, Marketing: mktSvc},
	}
}

// Register mounts every API route on the router.
func (d *Deps) Register(api fiber.Router) {
	api.Post("/products", d.CatalogHandler.AddProduct)
	api.Post("/products/:id/restock", d.CatalogHandler.Restock)
	api.Post("/products/:id/price", d.CatalogHandler.UpdatePrice)
	api.Get("/products/low-stock", d.CatalogHandler.LowStock)
	api.Get("/products/:id/logs", d.CatalogHandler.InventoryLogs)

	api.Post("/suppliers", d.CatalogHandler.AddSupplier)
	api.Post("/promotions", d.PromotionHandler.Add)

	api.Post("/customers", d.CustomerHandler.Add)
	api.Get("/customers/:id/orders", d.CustomerHandler.OrderHistory)
	api.Get("/customers/:id/lifetime-value", d.CustomerHandler.LifetimeValue)
	api.Post("/customers/:id/upgrade", d.CustomerHandler.Upgrade)

	// Order submission gets a tighter rate limit than the rest of the API.
	submitLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.orders.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/orders", submitLimiter, d.OrderHandler.Submit)
	api.Get("/orders/:id", d.OrderHandler.Get)
	api.Post("/orders/:id/status", d.OrderHandler.UpdateStatus)
	api.Post("/orders/:id/ship", d.OrderHandler.Ship)
	api.Post("/orders/:id/cancel", d.OrderHandler.Cancel)
	api.Post("/orders/:id/discount", d.OrderHandler.Discount)

	api.Get("/reports/sales", d.ReportHandler.Sales)
	api.Post("/marketing/notify", d.ReportHandler.Notify)
}
