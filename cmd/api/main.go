package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "stockledger/api/swagger" // swagger docs
	"stockledger/internal/clock"
	"stockledger/internal/config"
	"stockledger/internal/database"
	"stockledger/internal/handler"
	"stockledger/internal/middleware"
	"stockledger/internal/pricing"
	"stockledger/internal/repository"
	"stockledger/internal/service"
	"stockledger/internal/websocket"
)

// @title           Stock Ledger API
// @version         1.0
// @description     Inventory and sales ledger for a PKR-sourced, GBP-sold reseller.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	setupLogger(cfg)
	log.Info().Str("env", cfg.Env).Msg("starting stockledger api")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == config.DefaultJWTSecret {
			log.Fatal().Msg("JWT_SECRET environment variable is required in production mode")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := config.NewStore(cfg.ConfigPath)
	connString := store.ConnectionString()

	// Degraded mode when this fails: only home and settings are usable.
	session := database.Open(ctx, connString)
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("closing database failed")
		}
	}()

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	var (
		productRepo repository.ProductRepository
		saleRepo    repository.SaleRepository
		logRepo     repository.LogRepository
	)
	if session.IsConnected() {
		var err error
		if productRepo, err = repository.NewProductRepository(ctx, session, wsHub); err != nil {
			log.Error().Err(err).Msg("loading products failed")
		}
		if saleRepo, err = repository.NewSaleRepository(ctx, session, wsHub); err != nil {
			log.Error().Err(err).Msg("loading sales failed")
		}
		if logRepo, err = repository.NewLogRepository(ctx, session, clock.System, wsHub); err != nil {
			log.Error().Err(err).Msg("loading activity logs failed")
		}
	}

	userService, err := service.NewUserService(cfg.AdminUsername, cfg.AdminPassword, []byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("hashing admin password failed")
	}

	calc := pricing.NewCalculator(store)
	activityService := service.NewActivityService(logRepo, clock.System)
	exportService := service.NewExportService(clock.System)

	handlers := handler.Handlers{
		User:      handler.NewUserHandler(userService),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(session, clock.System)),
		Settings:  handler.NewSettingsHandler(service.NewSettingsService(store, session, connString, nil)),
		Inventory: handler.NewInventoryHandler(service.NewStockService(productRepo, activityService, calc, clock.System), exportService),
		Revenue:   handler.NewRevenueHandler(service.NewRevenueService(saleRepo, productRepo, activityService, calc, store), exportService),
		Audit:     handler.NewAuditHandler(service.NewAuditService(logRepo, clock.System), exportService),
	}

	loginLimit, err := middleware.RateLimit(cfg.LoginRate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.LoginRate).Msg("invalid LOGIN_RATE")
	}

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		status := "OK"
		if err := session.Ping(c.Request.Context()); err != nil {
			status = "DEGRADED"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "database_connected": session.IsConnected()})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(cfg.JWTSecret))
	})

	handlers.Mount(router, []byte(cfg.JWTSecret), session, loginLimit)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Bool("database_connected", session.IsConnected()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}
