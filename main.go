package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"taskapi/internal/config"
	"taskapi/internal/database"
	"taskapi/internal/logging"
	"taskapi/internal/server"
	"taskapi/internal/services"
	"taskapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// A local .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	cfg, err := config.Load(viper.New())
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logging.New(cfg)
	log.WithField("config", cfg.String()).Info("configuration loaded")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	// --- Database ---
	db, err := database.Open(cfg.DatabaseURL, cfg.SQLitePath, logging.GormLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}()

	// --- Lifecycle events ---
	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	// --- Fiber app ---
	app := server.New(server.Options{
		DB:             db,
		Publisher:      publisher,
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ServiceOptions: []services.Option{services.WithHashCost(cfg.BcryptCost)},
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
	})

	// --- Start HTTP Server ---
	listenErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.AppPort).Info("starting server")
		listenErr <- app.Listen(cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down server")
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("error during fiber shutdown: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

// newPublisher connects to RabbitMQ when it is configured. The returned
// publisher is a nil interface when events are disabled.
func newPublisher(cfg *config.Config, log logrus.FieldLogger) (services.EventPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		log.Info("RABBITMQ_URL not set, lifecycle events disabled")
		return nil, func() {}, nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	log.WithField("queue", client.Queue()).Info("publishing lifecycle events to RabbitMQ")

	return client, func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("failed to close RabbitMQ client")
		}
	}, nil
}
