package main

import (
	"os"
	"os/signal"
	"syscall"

	"restocked-api/internal/config"
	"restocked-api/internal/handler"
	"restocked-api/internal/middleware"
	"restocked-api/internal/model"
	"restocked-api/internal/repository"
	"restocked-api/internal/service"
	"restocked-api/internal/ws"
	"restocked-api/pkg/database"
	"restocked-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env + Config
	if err := godotenv.Load(); err != nil {
		logger.Init("restocked-api", true)
		logger.Warn().Msg(".env file not found, relying on system env")
	}
	cfg := config.Load()
	logger.Init("restocked-api", cfg.IsDevelopment())

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := db.AutoMigrate(
		&model.User{}, &model.Category{}, &model.Product{},
		&model.Transaction{}, &model.SKUCounter{},
	); err != nil {
		logger.Fatal().Err(err).Msg("auto migration failed")
	}
	logger.Info().Msg("database connection established")

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	counterRepo := repository.NewSKUCounterRepo(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(db, productRepo, categoryRepo, counterRepo, wsHub)
	txService := service.NewTransactionService(db, productRepo, txRepo, wsHub)
	invService := service.NewInventoryService(productRepo)
	dashService := service.NewDashboardService(txRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	txHandler := handler.NewTransactionHandler(txService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "ReStocked API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Registration is guarded by a shared API key instead of a session
	api.Post("/users", middleware.RequireAPIKey(cfg.APIKeyHeader, cfg.APIKey), userHandler.CreateUser)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/auth/me", authHandler.Me)

	// User Management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Put("/users/:id", userHandler.UpdateUser)
	protected.Delete("/users/:id", userHandler.DeleteUser)

	// Categories
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Get("/categories/:id", categoryHandler.GetCategory)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Put("/categories/:id", categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", categoryHandler.DeleteCategory)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	// Transactions (immutable ledger: create + read only)
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Post("/transactions", txHandler.CreateTransaction)

	// Inventory + Dashboard views
	protected.Get("/inventory", invHandler.GetInventory)
	protected.Get("/inventory/low-stock", invHandler.GetLowStock)
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}

// seedAdmin creates a default account on an empty users table so the
// frontend can log in on first boot.
func seedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	admin := &model.User{
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@example.com",
	}
	if err := admin.SetPassword("admin123"); err != nil {
		logger.Warn().Err(err).Msg("failed to hash admin password")
		return
	}
	if err := db.Create(admin).Error; err != nil {
		logger.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	logger.Info().Str("email", admin.Email).Msg("admin user created")
}
