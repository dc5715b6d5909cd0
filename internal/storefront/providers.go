package storefront

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tair/affiliate-reviews/internal/config"
	"github.com/tair/affiliate-reviews/internal/ops"
	"github.com/tair/affiliate-reviews/internal/storefront/client"
	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/repository"
	"github.com/tair/affiliate-reviews/internal/storefront/state"
	"github.com/tair/affiliate-reviews/kafka"
	"github.com/tair/affiliate-reviews/pkg/logger"
	"github.com/tair/affiliate-reviews/pkg/storage"
)

// Wire sets
var InfrastructureSet = wire.NewSet(
	ProvideStore,
	ProvideRegistry,
	ProvideBackends,
	wire.FieldsOf(new(*Backends), "Backend", "Breakers"),
	ProvideGenerator,
	ProvidePublisher,
	ProvideSortKey,
)

var AppSet = wire.NewSet(
	wire.Struct(new(state.Deps), "*"),
	ProvideApp,
)

var OpsSet = wire.NewSet(
	ProvideHealthChecker,
	ProvideOpsServer,
)

// Storefront is everything the command needs to run
type Storefront struct {
	App *state.App
	// Ops is nil when the ops endpoint is disabled
	Ops *ops.Server
}

// Backends carries the decorated backend and the breaker of the hosted one
type Backends struct {
	Backend  domain.Backend
	Breakers ops.BreakerStats
}

// ProvideStore opens the configured key-value store
func ProvideStore(ctx context.Context, cfg config.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		store, err := storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.Password,
			DB:       cfg.Storage.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return storage.NewFileStore(cfg.Storage.Path), func() {}, nil
	}
}

// ProvideRegistry creates the metrics registry with runtime collectors
func ProvideRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return reg, nil
}

// ProvideBackends builds the configured backend wrapped in metrics and tracing
func ProvideBackends(ctx context.Context, cfg config.Config, store domain.KeyValueStore, reg *prometheus.Registry) (*Backends, func(), error) {
	var (
		base     domain.Backend
		breakers ops.BreakerStats
		cleanup  = func() {}
	)

	switch cfg.Backend.Driver {
	case config.DriverSupabase:
		sb, err := repository.NewSupabaseBackend(ctx, repository.SupabaseConfig{
			URL:          cfg.Backend.URL,
			AnonKey:      cfg.Backend.AnonKey,
			Timeout:      cfg.Backend.Timeout,
			BulkFunction: cfg.Backend.BulkFunction,
		}, store)
		if err != nil {
			return nil, nil, err
		}
		base, breakers = sb, sb.BreakerStats
		cleanup = func() { _ = sb.Close() }
	case config.DriverMemory:
		base = repository.NewMemoryBackend(repository.WithLatency(cfg.Backend.MockLatency))
		logger.Logger.Info().Dur("latency", cfg.Backend.MockLatency).Msg("Using in-memory backend")
	default:
		return nil, nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}

	measured, err := repository.NewMetricsBackend(base, reg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &Backends{
		Backend:  repository.NewTracingBackend(measured),
		Breakers: breakers,
	}, cleanup, nil
}

// ProvideGenerator creates the Gemini review writer
func ProvideGenerator(ctx context.Context, cfg config.Config) (domain.TextGenerator, error) {
	return client.NewGeminiClient(ctx, client.GeminiConfig{
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	})
}

// ProvidePublisher creates the Kafka publisher, or a no-op one without brokers
func ProvidePublisher(cfg config.Config) (domain.ActivityPublisher, func(), error) {
	if len(cfg.Events.Brokers) == 0 {
		return kafka.NoopPublisher{}, func() {}, nil
	}
	p, err := kafka.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

// ProvideSortKey reads the initial grid order
func ProvideSortKey(cfg config.Config) (domain.SortKey, error) {
	return domain.ParseSortKey(cfg.UI.Sort)
}

// ProvideApp creates the storefront state; the cleanup stops its background work
func ProvideApp(deps state.Deps) (*state.App, func()) {
	app := state.NewApp(deps)
	return app, app.Close
}

// ProvideHealthChecker registers probes for the backend and the store
func ProvideHealthChecker(cfg config.Config, backend domain.Backend, store domain.KeyValueStore) *ops.HealthChecker {
	checker := ops.NewHealthChecker(cfg.ServiceName)
	checker.Register("backend", backend.Ping)
	checker.Register("storage", func(ctx context.Context) error {
		_, _, err := store.Get(ctx, "theme")
		return err
	})
	return checker
}

// ProvideOpsServer creates the ops endpoint, or nil when no address is configured
func ProvideOpsServer(cfg config.Config, checker *ops.HealthChecker, reg *prometheus.Registry, breakers ops.BreakerStats) *ops.Server {
	if cfg.Ops.Addr == "" {
		return nil
	}
	return ops.NewServer(ops.Config{Addr: cfg.Ops.Addr}, checker, reg, breakers)
}
