package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chodocu/chodocu-backend/internal/chat"
	"github.com/chodocu/chodocu-backend/internal/config"
	"github.com/chodocu/chodocu-backend/internal/handler"
	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/chodocu/chodocu-backend/internal/scheduler"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/database"
	"github.com/chodocu/chodocu-backend/pkg/email"
	"github.com/chodocu/chodocu-backend/pkg/logger"
	"github.com/chodocu/chodocu-backend/pkg/payment"
	"github.com/chodocu/chodocu-backend/pkg/qrcode"
	"github.com/chodocu/chodocu-backend/pkg/storage"
	"github.com/chodocu/chodocu-backend/pkg/utils"
)

func main() {
	// .env is optional in production, required locally.
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	zlog := logger.New()
	defer zlog.Sync()

	db := database.NewDatabase()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	productRepo := repository.NewProductRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	packageRepo := repository.NewSubscriptionPackageRepository(db)
	subscriptionRepo := repository.NewUserSubscriptionRepository(db)
	boostRepo := repository.NewProductBoostRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Infrastructure
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}
	emailService := email.NewEmailService(zlog)
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.FrontendURL)
	qrService := qrcode.NewQRService(cfg.FrontendURL + "/products/")
	validator := utils.NewValidator()
	hub := chat.NewHub(zlog)

	// Services
	authService := service.NewAuthService(userRepo, emailService, zlog)
	userService := service.NewUserService(userRepo, store, zlog)
	taxonomyService := service.NewTaxonomyService(categoryRepo, brandRepo)
	productService := service.NewProductService(productRepo, categoryRepo, brandRepo, userRepo, favoriteRepo, store, zlog)
	packageService := service.NewPackageService(packageRepo)
	subscriptionService := service.NewSubscriptionService(db, userRepo, packageRepo, subscriptionRepo, boostRepo, productRepo, zlog)
	transactionService := service.NewTransactionService(db, transactionRepo, userRepo, stripeService, emailService, zlog)
	chatService := service.NewChatService(conversationRepo, messageRepo, userRepo, zlog)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService, validator)
	productHandler := handler.NewProductHandler(productService, qrService, validator)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, packageService, validator)
	transactionHandler := handler.NewTransactionHandler(transactionService, validator)
	chatHandler := handler.NewChatHandler(chatService, hub, validator, zlog)
	uploadHandler := handler.NewUploadHandler(store, zlog)

	// Background sweeps
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := scheduler.NewSweeper(db, productRepo, boostRepo, subscriptionRepo, userRepo, zlog)
	go sweeper.Run(ctx)

	// Router
	app := fiber.New(fiber.Config{
		BodyLimit: 12 << 20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/categories", taxonomyHandler.GetCategories)
	api.Get("/categories/:id/subcategories", taxonomyHandler.GetSubcategories)
	api.Get("/categories/:id/brands", taxonomyHandler.GetBrandsByCategory)
	api.Get("/categories/:id/products", productHandler.GetProductsByCategory)
	api.Get("/brands", taxonomyHandler.GetBrands)

	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/products/:id/qr", productHandler.GetProductQR)
	api.Get("/users/:id", userHandler.GetPublicProfile)

	api.Get("/subscriptions/packages", subscriptionHandler.GetPackages)

	// Stripe webhook (public, signature-verified)
	api.Post("/payments/webhook", transactionHandler.StripeWebhook)

	// Websocket endpoint; token arrives as a query parameter.
	app.Use("/api/chat/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/chat/ws", middleware.Protected(), websocket.New(chatHandler.ServeWS))

	// Protected routes
	api.Use(middleware.Protected())
	{
		user := api.Group("/user")
		user.Get("/profile", userHandler.GetProfile)
		user.Put("/profile", userHandler.UpdateProfile)
		user.Post("/avatar", userHandler.UpdateAvatar)

		products := api.Group("/products")
		products.Post("/", productHandler.CreateProduct)
		products.Put("/:id", productHandler.UpdateProduct)
		products.Delete("/:id", productHandler.DeleteProduct)
		products.Post("/:id/hide", productHandler.HideProduct)
		products.Post("/:id/show", productHandler.ShowProduct)
		products.Post("/:id/renew", productHandler.RenewProduct)
		products.Post("/:id/favorite", productHandler.AddToFavorites)
		products.Delete("/:id/favorite", productHandler.RemoveFromFavorites)

		api.Get("/my/products", productHandler.GetMyProducts)
		api.Get("/my/favorites", productHandler.GetFavorites)

		subscriptions := api.Group("/subscriptions")
		subscriptions.Post("/purchase", subscriptionHandler.PurchaseSubscription)
		subscriptions.Post("/boost", subscriptionHandler.BoostProduct)
		subscriptions.Post("/upgrade", subscriptionHandler.UpgradeToPremium)
		subscriptions.Post("/downgrade", subscriptionHandler.DowngradeToStandard)
		subscriptions.Get("/details", subscriptionHandler.GetSubscriptionDetails)
		subscriptions.Get("/boosts", subscriptionHandler.GetBoostHistory)

		wallet := api.Group("/wallet")
		wallet.Post("/deposit", transactionHandler.CreateDeposit)
		wallet.Get("/transactions", transactionHandler.GetMyTransactions)
		wallet.Get("/transactions/:id", transactionHandler.GetTransaction)

		conversations := api.Group("/conversations")
		conversations.Post("/", chatHandler.StartConversation)
		conversations.Get("/", chatHandler.GetConversations)
		conversations.Get("/:id/messages", chatHandler.GetMessages)
		conversations.Post("/messages", chatHandler.SendMessage)

		api.Post("/uploads", uploadHandler.UploadImage)

		// Admin area. Moderators get in for product review; everything
		// else needs the admin role.
		admin := api.Group("/admin", middleware.RequireRole(models.RoleModerator, models.RoleAdmin))
		admin.Get("/products", productHandler.GetAllProducts)
		admin.Patch("/products/:id/status", productHandler.ModerateProduct)

		adminOnly := middleware.RequireRole(models.RoleAdmin)
		admin.Get("/users", adminOnly, userHandler.ListUsers)
		admin.Patch("/users/:id", adminOnly, userHandler.UpdateUserStatusRole)
		admin.Post("/categories", adminOnly, taxonomyHandler.CreateCategory)
		admin.Put("/categories/:id", adminOnly, taxonomyHandler.UpdateCategory)
		admin.Delete("/categories/:id", adminOnly, taxonomyHandler.DeleteCategory)
		admin.Post("/brands", adminOnly, taxonomyHandler.CreateBrand)
		admin.Put("/brands/:id", adminOnly, taxonomyHandler.UpdateBrand)
		admin.Delete("/brands/:id", adminOnly, taxonomyHandler.DeleteBrand)
		admin.Post("/packages", adminOnly, subscriptionHandler.CreatePackage)
		admin.Put("/packages/:id", adminOnly, subscriptionHandler.UpdatePackage)
		admin.Delete("/packages/:id", adminOnly, subscriptionHandler.DeactivatePackage)
		admin.Get("/transactions", adminOnly, transactionHandler.GetAllTransactions)
		admin.Post("/transactions/:id/review", adminOnly, transactionHandler.ReviewDeposit)
	}

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
