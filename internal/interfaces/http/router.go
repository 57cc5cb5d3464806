package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	ProductUC     *usecase.ProductUseCase
	OrderUC       *purchasing.OrderUseCase
	SaleUC        *sales.SaleUseCase
	ReceiptUC     *sales.ReceiptUseCase
	Replenishment *inventory.ReplenishmentUseCase
	SalesReport   *analytics.SalesReportUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	staff := RequireRole(entity.RoleManager, entity.RoleAdmin)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/token", authHandler.Token)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/", staff, userHandler.List)
	users.Get("/:id", staff, userHandler.GetByID)
	users.Patch("/:id", staff, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", staff, categoryHandler.Create)
	categories.Put("/:id", staff, categoryHandler.Rename)
	categories.Delete("/:id", staff, categoryHandler.Delete)

	// Suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", staff, supplierHandler.Create)
	suppliers.Patch("/:id", staff, supplierHandler.Update)
	suppliers.Delete("/:id", staff, supplierHandler.Delete)

	// Products y variantes
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/variants", productHandler.ListVariants)
	products.Post("/", staff, productHandler.Create)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", staff, productHandler.Delete)
	products.Post("/:id/image", staff, productHandler.UploadImage)
	products.Post("/:id/variants", staff, productHandler.AddVariant)

	variants := protected.Group("/variants")
	variants.Get("/:id", productHandler.GetVariant)
	variants.Patch("/:id", staff, productHandler.UpdateVariant)
	variants.Delete("/:id", staff, productHandler.DeleteVariant)

	// Purchase orders (solo personal)
	orderHandler := NewPurchaseOrderHandler(deps.OrderUC)
	orders := protected.Group("/purchase-orders", staff)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Patch("/:id/status", orderHandler.ChangeStatus)
	orders.Delete("/:id", orderHandler.Delete)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", staff, saleHandler.List)
	salesGroup.Get("/by-cedula/:cedula", saleHandler.ListByCustomer)
	salesGroup.Get("/:code", saleHandler.GetByCode)
	salesGroup.Get("/:code/receipt", saleHandler.Receipt)
	salesGroup.Patch("/:code/status", staff, saleHandler.ChangeStatus)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Delete)

	// Reportes
	inventoryHandler := NewInventoryHandler(deps.Replenishment, deps.SalesReport)
	protected.Get("/inventory/low-stock", staff, inventoryHandler.LowStock)
	protected.Get("/analytics/sales", staff, inventoryHandler.SalesReport)
}
