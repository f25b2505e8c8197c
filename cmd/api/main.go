package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terra-legacy/terra-backend/api/controllers"
	"github.com/terra-legacy/terra-backend/api/routes"
	authsvc "github.com/terra-legacy/terra-backend/internal/auth"
	blogsvc "github.com/terra-legacy/terra-backend/internal/blogs"
	cartsvc "github.com/terra-legacy/terra-backend/internal/cart"
	checkoutsvc "github.com/terra-legacy/terra-backend/internal/checkout"
	contentsvc "github.com/terra-legacy/terra-backend/internal/content"
	coursesvc "github.com/terra-legacy/terra-backend/internal/courses"
	eventsvc "github.com/terra-legacy/terra-backend/internal/events"
	forumsvc "github.com/terra-legacy/terra-backend/internal/forums"
	notificationsvc "github.com/terra-legacy/terra-backend/internal/notifications"
	ordersvc "github.com/terra-legacy/terra-backend/internal/orders"
	productsvc "github.com/terra-legacy/terra-backend/internal/products"
	usersvc "github.com/terra-legacy/terra-backend/internal/users"
	"github.com/terra-legacy/terra-backend/pkg/auth/session"
	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/db"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/metrics"
	"github.com/terra-legacy/terra-backend/pkg/migrate"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	deps := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deps, redisClient, sessionManager, httpMetrics, metricsHandler, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, sessionManager *session.Manager) (routes.Services, error) {
	gormDB := dbClient.DB()

	productRepo := productsvc.NewRepository(gormDB)
	blogRepo := blogsvc.NewRepository(gormDB)
	eventRepo := eventsvc.NewRepository(gormDB)
	courseRepo := coursesvc.NewRepository(gormDB)
	forumRepo := forumsvc.NewRepository(gormDB)
	orderRepo := ordersvc.NewRepository(gormDB)
	userRepo := usersvc.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	blogService, err := blogsvc.NewService(blogRepo)
	if err != nil {
		return routes.Services{}, err
	}
	eventService, err := eventsvc.NewService(eventRepo)
	if err != nil {
		return routes.Services{}, err
	}
	courseService, err := coursesvc.NewService(courseRepo)
	if err != nil {
		return routes.Services{}, err
	}
	forumService, err := forumsvc.NewService(gormDB, forumRepo, outboxSvc, logg)
	if err != nil {
		return routes.Services{}, err
	}
	orderService, err := ordersvc.NewService(gormDB, orderRepo, outboxSvc, logg)
	if err != nil {
		return routes.Services{}, err
	}
	userService, err := usersvc.NewService(userRepo, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	authService, err := authsvc.NewService(userRepo, sessionManager, cfg.JWT, logg)
	if err != nil {
		return routes.Services{}, err
	}

	cartStore, err := cartsvc.NewStore(redisClient, cfg.Cart, logg)
	if err != nil {
		return routes.Services{}, err
	}
	cartService, err := cartsvc.NewService(cartStore, productRepo, cfg.Cart, logg)
	if err != nil {
		return routes.Services{}, err
	}

	checkoutSessions, err := checkoutsvc.NewSessionStore(redisClient, cfg.Checkout, logg)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutService, err := checkoutsvc.NewService(gormDB, checkoutSessions, cartService, orderRepo, outboxSvc, cfg.Checkout, logg)
	if err != nil {
		return routes.Services{}, err
	}

	contentService, err := contentsvc.NewService(productService, blogService, eventService, courseService, forumService)
	if err != nil {
		return routes.Services{}, err
	}

	notificationService, err := notificationsvc.NewService(notificationsvc.NewRepository(gormDB))
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Products:      productService,
		Cart:          cartService,
		Checkout:      checkoutService,
		Orders:        orderService,
		Blogs:         blogService,
		Events:        eventService,
		Courses:       courseService,
		Forums:        forumService,
		Content:       contentService,
		Users:         userService,
		Notifications: notificationService,
	}, nil
}
