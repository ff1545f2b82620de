package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bloodlink/internal/config"
	"bloodlink/internal/feed"
	"bloodlink/internal/handler"
	"bloodlink/internal/middleware"
	"bloodlink/internal/repository"
	"bloodlink/internal/service"
	"bloodlink/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zlog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	changeFeed := feed.NewRedisFeed(redisClient, zlog)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, changeFeed, cfg, zlog)
	handlers := handler.NewHandlers(services)

	if cfg.WatcherEnabled {
		if err := services.Watcher.Start(context.Background()); err != nil {
			// Degraded but serviceable: the API still works and an operator
			// can restart to re-subscribe.
			zlog.Error("Failed to start request watcher", zap.Error(err))
		} else {
			defer func() {
				if err := services.Watcher.Stop(); err != nil {
					zlog.Warn("Failed to stop request watcher", zap.Error(err))
				}
			}()
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/auth/me", h.Auth.Me)
	protected.Post("/auth/logout", h.Auth.Logout)

	donors := protected.Group("/donors")
	donors.Post("/", h.Donor.Register)
	donors.Get("/me", h.Donor.GetProfile)
	donors.Patch("/me", h.Donor.Update)
	donors.Post("/me/donated", h.Donor.RecordDonation)
	donors.Get("/", middleware.RequireRole("admin"), h.Donor.List)

	requests := protected.Group("/requests")
	requests.Post("/", h.Request.Create)
	requests.Get("/mine", h.Request.ListMine)
	requests.Get("/", middleware.RequireRole("admin"), h.Request.List)
	requests.Get("/:id", h.Request.Get)
	requests.Post("/:id/cancel", h.Request.Cancel)
	requests.Post("/:id/complete", h.Request.Complete)
	requests.Post("/:id/notify", middleware.RequireRole("admin"), h.Request.NotifyDonors)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", h.Dashboard.GetStats)
}
