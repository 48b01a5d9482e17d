package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/migrations"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/tracing"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.OTel, version)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	db, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Run(ctx, db, "up"); err != nil {
			slog.Error("❌ Error applying migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("✅ Migrations applied")
	}

	repos := repository.New(db)

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(ctx, &cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer catalogCache.Close()

	// validated when the config was loaded
	shippingCharge, _ := cfg.Checkout.Charge()

	jwtKey := []byte(cfg.Security.JWTKey)

	var emailClient sendgrid.EmailService
	var confirmations service.NotificationService
	if cfg.SendGrid.APIKey != "" {
		emailClient = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid API key not set, order confirmation emails are disabled")
	}

	notificationService := service.NewNotificationService(repos.Notification, emailClient)
	if emailClient != nil {
		confirmations = notificationService
	}

	userService := service.NewUserService(repos.User, repository.NewRateLimitRepo(redisClient, &cfg.RateConfig), jwtKey, cfg.Security.JWTExpiryHours)
	catalogService := service.NewCatalogService(repos.Product, repos.Category, repos.Review, catalogCache, &cfg.Catalog)
	cartService := service.NewCartService(repos.Cart)
	addressService := service.NewAddressService(repos.Address)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Address, confirmations, shippingCharge, cfg.Checkout.TxTimeout)
	reviewService := service.NewReviewService(repos.Review)
	dashboardService := service.NewDashboardService(repos.Product, repos.Category, repos.Order, catalogCache)

	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(addressService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, notificationService)

	authMiddleware := middleware.NewAuthMiddleware(jwtKey)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	go rateLimiter.Run(ctx)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: db})
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Public routes are limited per IP, authenticated ones per user.
	public := func(h http.HandlerFunc) http.Handler { return rateLimiter.Middleware(h) }
	user := func(h http.HandlerFunc) http.Handler { return authMiddleware.Authenticate(rateLimiter.Middleware(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMiddleware.RequireAdmin(rateLimiter.Middleware(h)) }

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.Handle("POST /api/v1/users/register", public(userHandler.Register()))
	routerMux.Handle("POST /api/v1/users/login", public(userHandler.Login()))
	routerMux.Handle("GET /api/v1/users/profile", user(userHandler.Profile()))

	routerMux.Handle("GET /api/v1/products", public(catalogHandler.ListProducts()))
	routerMux.Handle("GET /api/v1/products/{id}", public(catalogHandler.GetProduct()))
	routerMux.Handle("GET /api/v1/categories", public(catalogHandler.ListCategories()))
	routerMux.Handle("GET /api/v1/categories/{id}/products", public(catalogHandler.CategoryProducts()))
	routerMux.Handle("POST /api/v1/products/{id}/reviews", user(reviewHandler.AddReview()))

	routerMux.Handle("GET /api/v1/cart", user(cartHandler.GetCart()))
	routerMux.Handle("POST /api/v1/cart/items", user(cartHandler.AddItem()))
	routerMux.Handle("PUT /api/v1/cart/items/{id}", user(cartHandler.UpdateItem()))
	routerMux.Handle("DELETE /api/v1/cart/items/{id}", user(cartHandler.RemoveItem()))

	routerMux.Handle("GET /api/v1/checkout/address", user(checkoutHandler.GetAddress()))
	routerMux.Handle("PUT /api/v1/checkout/address", user(checkoutHandler.SaveAddress()))
	routerMux.Handle("GET /api/v1/checkout/review", user(checkoutHandler.Review()))

	routerMux.Handle("POST /api/v1/orders", user(orderHandler.PlaceOrder()))
	routerMux.Handle("GET /api/v1/orders", user(orderHandler.ListOrders()))
	routerMux.Handle("GET /api/v1/orders/{id}", user(orderHandler.GetOrder()))

	routerMux.Handle("GET /api/v1/dashboard", admin(dashboardHandler.Summary()))
	routerMux.Handle("GET /api/v1/dashboard/products", admin(dashboardHandler.ListProducts()))
	routerMux.Handle("POST /api/v1/dashboard/products", admin(dashboardHandler.CreateProduct()))
	routerMux.Handle("PUT /api/v1/dashboard/products/{id}", admin(dashboardHandler.UpdateProduct()))
	routerMux.Handle("DELETE /api/v1/dashboard/products/{id}", admin(dashboardHandler.DeleteProduct()))
	routerMux.Handle("POST /api/v1/dashboard/products/{id}/variants", admin(dashboardHandler.CreateVariant()))
	routerMux.Handle("GET /api/v1/dashboard/categories", admin(dashboardHandler.ListCategories()))
	routerMux.Handle("POST /api/v1/dashboard/categories", admin(dashboardHandler.CreateCategory()))
	routerMux.Handle("PUT /api/v1/dashboard/categories/{id}", admin(dashboardHandler.UpdateCategory()))
	routerMux.Handle("DELETE /api/v1/dashboard/categories/{id}", admin(dashboardHandler.DeleteCategory()))
	routerMux.Handle("GET /api/v1/dashboard/orders/{id}/notifications", admin(dashboardHandler.OrderNotifications()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr), slog.String("env", cfg.Env), slog.String("version", version))

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
