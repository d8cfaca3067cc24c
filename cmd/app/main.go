package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lotflow/cmd"
	httpapi "lotflow/internal/adapters/in/http"
	"lotflow/internal/adapters/out/postgres"
	"lotflow/internal/changefeed"
	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configs := getConfigs()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer app.Close()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	loadDotEnv()

	threshold, err := cmd.ParseDuration("OVERDUE_THRESHOLD",
		os.Getenv("OVERDUE_THRESHOLD"), commands.DefaultOverdueThreshold)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	feedBuffer, err := cmd.ParseInt("FEED_BUFFER", os.Getenv("FEED_BUFFER"), changefeed.DefaultBuffer)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	cronSpec := os.Getenv("OVERDUE_CRON")
	if cronSpec == "" {
		cronSpec = jobs.DefaultOverdueReworkSpec
	}

	return cmd.Config{
		HTTPPort:         os.Getenv("HTTP_PORT"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBSslMode:        os.Getenv("DB_SSLMODE"),
		NATSURL:          os.Getenv("NATS_URL"),
		RoutingFile:      os.Getenv("ROUTING_FILE"),
		OverdueThreshold: threshold,
		OverdueCronSpec:  cronSpec,
		FeedBuffer:       feedBuffer,
	}
}

// loadDotEnv reads .env when present. Deployments usually set the variables directly.
func loadDotEnv() {
	err := godotenv.Load(".env")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	if err := httpapi.Mount(e, app.CreateHTTPServer()); err != nil {
		log.Fatalf("failed to mount API: %v", err)
	}
	app.CreateFeedHandler().Register(e)
	e.GET("/metrics", echo.WrapHandler(app.Metrics.Handler()))

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}
