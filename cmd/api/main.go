package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "console/api/swagger" // swagger docs
	"console/internal/config"
	"console/internal/database"
	"console/internal/handler"
	"console/internal/middleware"
	"console/internal/repository"
	"console/internal/service"
	"console/internal/session"
	"console/internal/websocket"
	"console/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Venue Console API
// @version         1.0
// @description     Back office of a concert venue: events and staffing, IT helpdesk and inventory, parking, knowledge base.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envFile := pflag.String("env-file", "configs/.env", "dotenv file read before the environment")
	seedFile := pflag.String("seed-file", "", "YAML directory seed (overrides DIRECTORY_SEED_FILE)")
	port := pflag.String("port", "", "HTTP port (overrides PORT)")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("Connected to database")

	seed, err := config.LoadDirectorySeed(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load directory seed")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	repos := repository.New(db, log, repository.Options{
		Seed:              seed,
		BootstrapPassword: cfg.Auth.BootstrapPassword,
		Notifier:          wsHub,
	})
	sessions := session.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	auth := middleware.NewAuth(sessions, cfg.Auth.CookieSecure).WithUserLookup(repos.Users.GetByID)

	deps := service.Deps{Repos: repos, Log: log, Notifier: wsHub}
	userService := service.NewUserService(deps, sessions)
	eventService := service.NewEventService(deps)
	directoryService := service.NewDirectoryService(deps)
	helpdeskService := service.NewHelpdeskService(deps)
	inventoryService := service.NewInventoryService(deps)
	parkingService := service.NewParkingService(deps, eventService)
	articleService := service.NewArticleService(deps)
	reminderService := service.NewReminderService(deps)
	guideService := service.NewGuideService(deps)
	dashboardService := service.NewDashboardService(deps, eventService, reminderService)
	auditService := service.NewAuditService(deps)
	notificationService := service.NewNotificationService(deps, reminderService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := notificationService.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Reminder digest not scheduled")
	}

	// Initialize Handlers
	routes := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handler.NewSystemHandler(repos.Settings),
		handler.NewUserHandler(userService, auth),
		handler.NewRoleHandler(auth),
		handler.NewDashboardHandler(dashboardService, auth),
		handler.NewEventHandler(eventService, auth),
		handler.NewDirectoryHandler(directoryService, auth),
		handler.NewHelpdeskHandler(helpdeskService, auth),
		handler.NewInventoryHandler(inventoryService, auth),
		handler.NewParkingHandler(parkingService, auth),
		handler.NewContentHandler(articleService, reminderService, guideService, auth),
		handler.NewAuditHandler(auditService, auth),
		handler.NewNotificationHandler(notificationService, auth),
	}

	// Set up Gin Router
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, auth)
	})

	// API Routing
	for _, h := range routes {
		h.RegisterRoutes(router.Group(""))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	notificationService.Stop()
	wsHub.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
