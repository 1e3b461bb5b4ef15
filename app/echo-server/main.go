package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"shoply/app/echo-server/router"
	"shoply/business/cart"
	"shoply/business/category"
	"shoply/business/product"
	userService "shoply/business/user"
	"shoply/internal/middleware"
	"shoply/internal/repository/notification"
	psqlRepo "shoply/internal/repository/postgres"
	tokenRepo "shoply/internal/repository/redis"
	"shoply/internal/repository/search"
	"shoply/internal/rest"
	"shoply/pkg/config"
	"shoply/pkg/database"
	redisdb "shoply/pkg/database/redis"
	"shoply/pkg/logger"
	"shoply/pkg/metrics"
	"shoply/pkg/utils"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Shoply", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close redis client", "error", err)
		}
	}()

	logger.Info("Redis connected successfully")

	// Init search index over product documents
	productIndex := search.NewProductIndex(redisClient, cfg.Redis.SearchIndexName, cfg.Redis.SearchKeyPrefix)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := productIndex.EnsureIndex(ctx); err != nil {
			logger.Fatal("Failed to create search index", "error", err)
		}
		cancel()
	}

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	tokenRepository := tokenRepo.NewTokenRepository(redisClient)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, tokenRepository, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	categorySvc := category.NewCategoryService(categoryRepo)
	productSvc := product.NewProductService(productRepo, categoryRepo, productIndex)
	cartSvc := cart.NewCartService(cartRepo, productRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	categoryHandler := rest.NewCategoryHandler(categorySvc, cfg.Uploads.MediaDir)
	productHandler := rest.NewProductHandler(productSvc, cfg.Uploads.MediaDir)
	cartHandler := rest.NewCartHandler(cartSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"version": cfg.App.Version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	optionalAuth := middleware.OptionalAuth()
	authRequired := middleware.AuthMiddlewareWithRedis(userSvc)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler, optionalAuth, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, optionalAuth, authRequired, adminOnly)
	router.SetupCartRoutes(api, cartHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
