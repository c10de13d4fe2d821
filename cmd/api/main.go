package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tienda-u-backend/internal/handler"
	"tienda-u-backend/internal/middleware"
	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"
	"tienda-u-backend/internal/service"
	"tienda-u-backend/internal/ws"
	"tienda-u-backend/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (prefer a separate migration tool in production)
	db.AutoMigrate(
		&model.User{}, &model.Section{}, &model.Product{}, &model.DailyStock{},
		&model.Invoice{}, &model.InvoiceLineItem{}, &model.SalesRecord{},
		&model.Profile{}, &model.Address{}, &model.CartBlob{},
	)

	// 3. Seed the default staff account
	seedStaffUser(db)

	// 4. Setup WebSocket Hub for order/stock events
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	taxRate := loadTaxRate()

	sectionRepo := repository.NewSectionRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	cartRepo := repository.NewCartRepo(db)
	userRepo := repository.NewUserRepo(db)

	authService := service.NewAuthService(userRepo)
	catalogService := service.NewCatalogService(sectionRepo, productRepo, stockRepo, invoiceRepo, time.Now)
	cartService := service.NewCartService(cartRepo, taxRate)
	checkoutService := service.NewCheckoutService(db, invoiceRepo, stockRepo, cartService, wsHub, taxRate, time.Now)
	historyService := service.NewHistoryService(invoiceRepo)
	profileService := service.NewProfileService(profileRepo)

	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService, catalogService)
	orderHandler := handler.NewOrderHandler(checkoutService, historyService, cartService)
	profileHandler := handler.NewProfileHandler(profileService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Tienda U Storefront v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog browsing needs no session
	api.Get("/sections", catalogHandler.GetSections)
	api.Get("/products", catalogHandler.GetProducts)
	api.Get("/products/featured", catalogHandler.GetFeaturedProducts)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Cart
	protected.Get("/cart", cartHandler.GetCart)
	protected.Get("/cart/summary", cartHandler.GetSummary)
	protected.Post("/cart/items", cartHandler.AddItem)
	protected.Put("/cart/items/:productId", cartHandler.UpdateItem)
	protected.Delete("/cart/items/:productId", cartHandler.RemoveItem)
	protected.Delete("/cart", cartHandler.ClearCart)

	// Checkout & order history
	protected.Post("/checkout", orderHandler.Checkout)
	protected.Get("/invoices", orderHandler.GetInvoices)
	protected.Get("/invoices/:id", orderHandler.GetInvoice)

	// Profile
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.SaveProfile)

	// Daily stock management (staff only)
	staffOnly := middleware.RequireRole(model.RoleStaff, model.RoleAdmin)
	protected.Post("/stock", staffOnly, catalogHandler.CreateDailyStock)
	protected.Get("/stock", staffOnly, catalogHandler.GetDailyStock)

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
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// loadTaxRate reads the configured IVA rate. The rate is the single
// source of truth for both cart summaries and checkout.
func loadTaxRate() decimal.Decimal {
	raw := os.Getenv("TAX_RATE")
	if raw == "" {
		raw = "0.12"
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		log.Fatalf("Invalid TAX_RATE %q: must be a non-negative decimal", raw)
	}
	return rate
}

// seedStaffUser creates the default staff account if it doesn't exist
func seedStaffUser(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("STAFF_EMAIL")
	if email == "" {
		email = "staff@tienda-u.local"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("STAFF_PASSWORD")
	if password == "" {
		password = "staff123"
	}

	staff := &model.User{
		Email:    email,
		FullName: "Store Staff",
		Role:     model.RoleStaff,
		IsActive: true,
	}
	staff.CreatedBy = "system"
	staff.UpdatedBy = "system"

	if err := staff.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash staff password: %v", err)
		return
	}
	if err := userRepo.Create(staff); err != nil {
		log.Printf("Warning: Failed to create staff user: %v", err)
		return
	}
	log.Printf("✅ Staff user created: %s", email)
}
