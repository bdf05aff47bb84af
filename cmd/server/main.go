package main

import (
	"context"
	"strings"
	"time"

	"warehouse-backend/internal/audit"
	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/config"
	"warehouse-backend/internal/dashboard"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/inventory"
	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/material"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/product"
	"warehouse-backend/internal/queue"
	"warehouse-backend/internal/report"
	"warehouse-backend/internal/stock"
	"warehouse-backend/internal/user"
	"warehouse-backend/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	log := logger.Sugar()
	defer logger.Get().Sync()

	db := database.Init(cfg)

	store := cache.NewRedis(cfg)
	bus := events.NewBus()

	// Cache invalidation and the websocket notifier subscribe to inventory
	// updates independently; the recorder only publishes.
	bus.Subscribe(func(events.InventoryUpdate) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cache.InvalidateInventory(ctx, store)
	})

	hub := ws.NewHub()
	hub.Attach(bus)

	tasks := queue.NewClient(cfg)
	defer tasks.Close()

	worker := queue.NewWorker(cfg, db)
	worker.Start()
	defer worker.Shutdown()

	transactions := inventory.NewGormTransactionRepository(db)
	summaries := stock.NewGormSummaryRepository(db)
	items := stock.NewGormItemLookup(db)
	ledger := stock.NewLedger(summaries, items)
	invSvc := inventory.NewService(transactions, items, ledger, bus, tasks)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Errorw("unexpected error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "timestamp": time.Now().Format(time.RFC3339)})
	})

	// Realtime channel for dashboard/inventory live refresh.
	app.Use("/ws", ws.UpgradeMiddleware())
	app.Get("/ws", hub.Handler())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg, db))
	api.Post("/auth/register", auth.RegisterHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Inventory
	canScan := auth.RequireRole(models.RoleAdmin, models.RoleWarehouseManager, models.RoleOperator)
	protected.Post("/inventory/scan", canScan, inventory.ScanHandler(invSvc))
	protected.Put("/inventory/reweigh/:id", canScan, inventory.ReweighHandler(invSvc))
	protected.Get("/inventory/transactions", inventory.ListTransactionsHandler(db))
	protected.Get("/inventory/transactions/:id", inventory.GetTransactionHandler(transactions))
	protected.Get("/inventory/summary", inventory.StockSummaryHandler(db, store))

	// Dashboard
	protected.Get("/dashboard/stats", dashboard.StatsHandler(db, store))
	protected.Get("/dashboard/recent", dashboard.RecentTransactionsHandler(db))
	protected.Get("/dashboard/low-stock", dashboard.LowStockHandler(db))

	// Materials & products: reads for everyone, mutations for managers up.
	canManageItems := auth.RequireRole(models.RoleAdmin, models.RoleWarehouseManager)
	protected.Get("/materials", material.ListMaterialsHandler(db))
	protected.Get("/materials/:id", material.GetMaterialHandler(db))
	protected.Post("/materials", canManageItems, material.CreateMaterialHandler(db))
	protected.Put("/materials/:id", canManageItems, material.UpdateMaterialHandler(db))
	protected.Delete("/materials/:id", canManageItems, material.DeleteMaterialHandler(db))

	protected.Get("/products", product.ListProductsHandler(db))
	protected.Get("/products/:id", product.GetProductHandler(db))
	protected.Post("/products", canManageItems, product.CreateProductHandler(db))
	protected.Put("/products/:id", canManageItems, product.UpdateProductHandler(db))
	protected.Delete("/products/:id", canManageItems, product.DeleteProductHandler(db))

	// User management (admin only), self-service password change for all.
	adminOnly := auth.RequireRole(models.RoleAdmin)
	protected.Post("/users/change-password", user.ChangePasswordHandler(db))
	protected.Get("/users", adminOnly, user.ListUsersHandler(db))
	protected.Get("/users/:id", adminOnly, user.GetUserHandler(db))
	protected.Post("/users", adminOnly, user.CreateUserHandler(db))
	protected.Put("/users/:id", adminOnly, user.UpdateUserHandler(db))
	protected.Delete("/users/:id", adminOnly, user.DeleteUserHandler(db))

	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler(db))

	// Reports
	protected.Get("/reports/daily", report.DailyReportHandler(db))
	protected.Get("/reports/export/excel", report.ExportExcelHandler(db))
	protected.Get("/reports/export/pdf", report.ExportPDFHandler(db))
	protected.Post("/reports/generate", func(c *fiber.Ctx) error {
		tasks.EnqueueReportGenerate(c.Query("kind", "excel"), c.Query("startDate"), c.Query("endDate"))
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "success"})
	})

	log.Infow("server starting", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
