package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/tair/affiliate-reviews/internal/config"
	"github.com/tair/affiliate-reviews/internal/storefront"
	"github.com/tair/affiliate-reviews/internal/storefront/delivery/tui"
	"github.com/tair/affiliate-reviews/pkg/logger"
	"github.com/tair/affiliate-reviews/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal belongs to the UI, logs go to a file
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment(), logFile)
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("backend", cfg.Backend.Driver).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting storefront")

	tp, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sf, cleanup, err := storefront.InitializeStorefront(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storefront: %w", err)
	}
	defer cleanup()

	if err := sf.App.Start(ctx); err != nil {
		return fmt.Errorf("failed to start storefront: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(runCtx, sf.App)
	defer model.Close()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		// Leaving the UI stops everything else
		defer cancel()
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := program.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("ui failed: %w", err)
		}
		return nil
	})

	if sf.Ops != nil {
		g.Go(func() error {
			return sf.Ops.Run(gctx)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Logger.Error().Err(err).Msg("Storefront stopped with error")
		return err
	}

	logger.Logger.Info().Msg("Storefront stopped")
	return nil
}
