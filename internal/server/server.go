// Package server assembles the HTTP application from its repositories,
// services and handlers.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskapi/internal/database"
	"taskapi/internal/handlers"
	"taskapi/internal/middleware"
	"taskapi/internal/repositories"
	"taskapi/internal/services"
)

// Options holds everything New needs to build the app.
type Options struct {
	DB *gorm.DB

	// Publisher receives lifecycle events. Leave nil to disable publishing.
	Publisher services.EventPublisher

	Logger             logrus.FieldLogger
	AllowedOrigins     string
	ServiceOptions     []services.Option
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	DisableStartupLogs bool
}

// New builds a fiber app with global middleware and every route registered.
func New(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	origins := opts.AllowedOrigins
	if origins == "" {
		origins = "*"
	}

	userRepo := repositories.NewGORMUserRepository(opts.DB)
	taskRepo := repositories.NewGORMTaskRepository(opts.DB)

	authService := services.NewAuthService(userRepo, opts.Publisher, log, opts.ServiceOptions...)
	userService := services.NewUserService(userRepo, opts.Publisher, log, opts.ServiceOptions...)
	taskService := services.NewTaskService(taskRepo, userRepo, opts.Publisher, log, opts.ServiceOptions...)

	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(authService, userService, log)
	taskHandler := handlers.NewTaskHandler(authService, taskService, log)

	app := fiber.New(fiber.Config{
		AppName:               "taskapi",
		ErrorHandler:          handlers.ErrorHandler(log),
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: opts.DisableStartupLogs,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("hello world")
	})
	app.Get("/health", healthHandler(opts.DB))

	authHandler.RegisterRoutes(app)
	userHandler.RegisterRoutes(app)
	taskHandler.RegisterRoutes(app)

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if err := database.Ping(db); err != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
