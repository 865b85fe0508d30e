package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-warehouse-api/internal/cache"
	"go-warehouse-api/internal/handler"
	"go-warehouse-api/internal/middleware"
	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/internal/service"
	"go-warehouse-api/internal/ws"
	"go-warehouse-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.StockMovement{},
		&model.Order{},
		&model.OrderItem{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.WithdrawalOrder{},
		&model.WithdrawalItem{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Optional Redis cache for dashboard stats
	var statsCache cache.StatsCache = cache.NoopStatsCache{}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		if redisCache := cache.NewRedisStatsCache(addr, os.Getenv("REDIS_PASSWORD")); redisCache != nil {
			statsCache = redisCache
		}
	}

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	purchaseRepo := repository.NewPurchaseOrderRepo(db)
	withdrawalRepo := repository.NewWithdrawalOrderRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(productRepo, movementRepo, db, wsHub)
	productService := service.NewProductService(productRepo, db, wsHub)
	orderService := service.NewOrderService(orderRepo, productRepo, ledgerService, db, wsHub)
	procurementService := service.NewProcurementService(purchaseRepo, withdrawalRepo, productRepo, ledgerService, db, wsHub)
	dashService := service.NewDashboardService(movementRepo, statsCache)
	reportService := service.NewReportService(productRepo)
	authService := service.NewAuthService(userRepo, roleRepo, privilegeRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	productHandler := handler.NewProductHandler(productService, ledgerService)
	orderHandler := handler.NewOrderHandler(orderService)
	procurementHandler := handler.NewProcurementHandler(procurementService)
	dashHandler := handler.NewDashboardHandler(dashService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Warehouse Order Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)

	// Products & stock ledger
	protected.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/update-stock", middleware.RequirePrivilege("stock:adjust"), productHandler.UpdateStockBatch)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), productHandler.GetProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)

	// Customer orders: lifecycle, delivery, payment
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), orderHandler.GetOrders)
	protected.Post("/orders", middleware.RequirePrivilege("order:create"), orderHandler.CreateOrder)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), orderHandler.GetOrder)
	protected.Put("/orders/:id/advance", middleware.RequirePrivilege("order:update"), orderHandler.AdvanceProduction)
	protected.Put("/orders/:id/retreat", middleware.RequirePrivilege("order:update"), orderHandler.RetreatProduction)
	protected.Put("/orders/:id/delivery", middleware.RequirePrivilege("order:update"), orderHandler.SetDelivery)
	protected.Put("/orders/:id/payment", orderHandler.RecordPayment)
	protected.Put("/orders/:id/confirm-payment", middleware.RequirePrivilege("order:confirm_payment"), orderHandler.ConfirmPayment)

	// Purchase orders (restock)
	protected.Get("/purchase-orders", middleware.RequirePrivilege("purchase:view"), procurementHandler.GetPurchaseOrders)
	protected.Post("/purchase-orders", middleware.RequirePrivilege("purchase:create"), procurementHandler.CreatePurchaseOrder)
	protected.Get("/purchase-orders/:id", middleware.RequirePrivilege("purchase:view"), procurementHandler.GetPurchaseOrder)
	protected.Put("/purchase-orders/:id/confirm", middleware.RequirePrivilege("purchase:confirm"), procurementHandler.ConfirmPurchaseOrder)
	protected.Delete("/purchase-orders/:id", middleware.RequirePrivilege("purchase:cancel"), procurementHandler.CancelPurchaseOrder)

	// Withdrawal orders (issue stock)
	protected.Get("/withdrawal-orders", middleware.RequirePrivilege("withdrawal:view"), procurementHandler.GetWithdrawalOrders)
	protected.Post("/withdrawal-orders", middleware.RequirePrivilege("withdrawal:create"), procurementHandler.CreateWithdrawalOrder)
	protected.Get("/withdrawal-orders/:id", middleware.RequirePrivilege("withdrawal:view"), procurementHandler.GetWithdrawalOrder)
	protected.Post("/withdrawal-orders/:id/confirm", middleware.RequirePrivilege("withdrawal:confirm"), procurementHandler.ConfirmWithdrawalOrder)

	// User Management
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/update-role", middleware.RequirePrivilege("user:update_role"), userHandler.UpdateRole)
	protected.Delete("/users/delete/:email", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUserByEmail)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)

	// Reports
	protected.Get("/reports/inventory/export", middleware.RequirePrivilege("report:export"), reportHandler.ExportInventory)

	// Roles & privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

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

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	assign := func(code string, pick func(p model.Privilege) bool) {
		role, err := roleRepo.FindByCode(code)
		if err != nil || len(role.Privileges) > 0 {
			return
		}
		var selected []model.Privilege
		for _, p := range allPrivileges {
			if pick(p) {
				selected = append(selected, p)
			}
		}
		if err := db.Model(role).Association("Privileges").Replace(selected); err != nil {
			log.Printf("Warning: Failed to assign privileges to %s: %v", code, err)
			return
		}
		log.Printf("Role %s assigned %d privileges", code, len(selected))
	}

	// ADMIN gets everything
	assign(model.RoleAdmin, func(p model.Privilege) bool { return true })

	// MANAGER gets everything except user administration
	assign(model.RoleManager, func(p model.Privilege) bool {
		return !strings.HasPrefix(p.Code, "user:")
	})

	// STAFF handles stock and orders day to day
	staffCodes := map[string]bool{
		"product:view": true, "stock:adjust": true,
		"order:view": true, "order:update": true,
		"withdrawal:view": true, "withdrawal:create": true,
		"purchase:view":  true,
		"dashboard:view": true,
	}
	assign(model.RoleStaff, func(p model.Privilege) bool { return staffCodes[p.Code] })

	// CUSTOMER places and follows own orders
	customerCodes := map[string]bool{}
	for _, code := range model.CustomerPrivilegeCodes {
		customerCodes[code] = true
	}
	assign(model.RoleCustomer, func(p model.Privilege) bool { return customerCodes[p.Code] })

	// 4. Create default admin user
	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
		if err != nil {
			log.Printf("Warning: admin role missing, skipping admin seed: %v", err)
			return
		}

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com (ADMIN)")
		}
	}
}
