package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/application/report"
	"github.com/jhoicas/pos-beras/internal/application/usecase"
	"github.com/jhoicas/pos-beras/pkg/jwt"
	"github.com/rs/zerolog"
)

// Coordinator operaciones atómicas de ventas e inventario que expone la API.
type Coordinator interface {
	SaleRecorder
	StockRecorder
	ReturnRecorder
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator   Coordinator
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	SaleQuery     *usecase.SaleQueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Reports       *report.Aggregator
	JWTSecret     string
	CORSOrigins   string
	Log           zerolog.Logger
	AppName       string
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(recover.New())
	app.Use(RequestLogger(deps.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(deps.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Rutas protegidas (Bearer Token cuando JWT_SECRET está configurado)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Sales
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Coordinator, deps.SaleQuery)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:ref", saleHandler.Get)

	// Stock
	stock := api.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.Coordinator, deps.Replenishment)
	stock.Post("/receipts", inventoryHandler.Receipt)
	stock.Post("/receipts/batch", inventoryHandler.ReceiptBatch)
	stock.Post("/transfers", inventoryHandler.Transfer)
	stock.Get("/replenishment", inventoryHandler.GetReplenishmentList)

	// Returns
	returns := api.Group("/returns")
	returnHandler := NewReturnHandler(deps.Coordinator)
	returns.Post("/", returnHandler.Create)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Put("/:id/stock", adminOnly, inventoryHandler.SetStock)
	products.Delete("/:id", adminOnly, productHandler.Deactivate)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/products", reportHandler.ProductProfit)
	reports.Get("/top-products", reportHandler.TopProducts)
	reports.Get("/customers", reportHandler.CustomerCategories)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/reconciliation", reportHandler.Reconciliation)
}
