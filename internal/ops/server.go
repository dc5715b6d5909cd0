// Package ops serves the storefront's health and metrics endpoints.
package ops

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tair/affiliate-reviews/pkg/logger"
)

// Config holds the ops endpoint settings
type Config struct {
	Addr         string
	ReadyTimeout time.Duration
}

// BreakerStats reports circuit breaker state
type BreakerStats func() map[string]interface{}

// Server is the ops HTTP endpoint
type Server struct {
	cfg Config
	app *fiber.App
}

// NewServer creates the ops endpoint. breakers may be nil.
func NewServer(cfg Config, checker *HealthChecker, gatherer prometheus.Gatherer, breakers BreakerStats) *Server {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 3 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               "storefront-ops",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(LoggingMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(checker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), cfg.ReadyTimeout)
		defer cancel()

		report := checker.CheckAll(ctx)
		status := fiber.StatusOK
		if report.Status == StatusUnhealthy {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(report)
	})

	if breakers != nil {
		app.Get("/health/breakers", func(c *fiber.Ctx) error {
			return c.JSON(breakers())
		})
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return &Server{cfg: cfg, app: app}
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx).Str("addr", s.cfg.Addr).Msg("Ops endpoint listening")
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info(ctx).Msg("Ops endpoint stopped")
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"statusCode": code,
		"path":       c.Path(),
		"requestId":  c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
