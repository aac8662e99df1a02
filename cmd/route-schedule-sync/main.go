package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rickb777/date"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/route-schedule-sync/internal/api/http"
	"github.com/i474232898/route-schedule-sync/internal/config"
	"github.com/i474232898/route-schedule-sync/internal/logger"
	"github.com/i474232898/route-schedule-sync/internal/schedule"
	"github.com/i474232898/route-schedule-sync/internal/schedule/providers"
	"github.com/i474232898/route-schedule-sync/internal/scheduler"
	"github.com/i474232898/route-schedule-sync/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger.Setup(cfg.LogFile)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.Fatalf("failed to load timezone %s: %v", cfg.Timezone, err)
	}

	// Persistent store.
	pg, err := store.NewPostgres(cfg.DatabaseURL, cfg.RouteSchema, cfg.StopSchema)
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	defer pg.Close()

	// Shared HTTP client for outbound routing API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	fetcher := providers.NewOptimoRouteProvider(httpClient, cfg.OptimoRouteBaseURL, cfg.OptimoRouteAPIKey)

	// Core service orchestrating fetcher and store.
	service := schedule.NewService(fetcher, pg, loc, cfg.WindowDays)

	if cfg.RunMode == config.RunModeOnce {
		runOnce(service, cfg.StartDate)
		return
	}

	serve(service, cfg)
}

// runOnce syncs one window starting at start and prints the report, which is
// the job's output when run from cron or by hand.
func runOnce(service *schedule.Service, start date.Date) {
	report, err := service.SyncWindow(context.Background(), start)
	if report != nil {
		fmt.Println(report)
	}
	if err != nil {
		logrus.Fatalf("schedule sync aborted: %v", err)
	}
}

func serve(service *schedule.Service, cfg *config.AppConfig) {
	// Scheduler that re-syncs the rolling window daily.
	sched := scheduler.New(service, cfg.SyncAt)
	if err := sched.Start(); err != nil {
		logrus.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "route-schedule-sync",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "route-schedule-sync",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, date.Today)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logrus.Errorf("error during shutdown: %v", err)
	}
}
