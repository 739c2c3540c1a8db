package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DanielMoranV/master-color-app/internal/application/orders"
	"github.com/DanielMoranV/master-color-app/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC    *stock.StockUseCase
	MovementUC *stock.MovementUseCase
	OrderUC    *orders.OrderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Stocks. Las mutaciones requieren rol de almacén o admin.
	stocks := api.Group("/stocks")
	stockHandler := NewStockHandler(deps.StockUC, deps.MovementUC)
	stocks.Post("/", RequireRole("admin", "almacen"), stockHandler.Create)
	stocks.Get("/", stockHandler.List)
	stocks.Get("/:id", stockHandler.GetByID)
	stocks.Put("/:id", RequireRole("admin", "almacen"), stockHandler.Update)
	stocks.Post("/:id/adjust", RequireRole("admin", "almacen"), stockHandler.Adjust)
	stocks.Delete("/:id", stockHandler.Delete)

	// Stock movements (inmutables: solo alta y consulta)
	movements := api.Group("/stock-movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/", RequireRole("admin", "almacen"), movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Get("/report", movementHandler.Report)
	movements.Get("/:id", movementHandler.GetByID)

	// Orders
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/statistics", orderHandler.Statistics)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Patch("/:id/status", orderHandler.AdvanceStatus)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Patch("/:id/observations", orderHandler.UpdateObservations)
	ordersGroup.Delete("/:id", orderHandler.Archive)
}
