package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
	appDirName        = "affiliate-reviews"
)

// Backend drivers
const (
	DriverMemory   = "memory"
	DriverSupabase = "supabase"
)

// Storage drivers
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type Backend struct {
	Driver       string        `mapstructure:"driver"`
	URL          string        `mapstructure:"url"`
	AnonKey      string        `mapstructure:"anon_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	BulkFunction string        `mapstructure:"bulk_function"`
	MockLatency  time.Duration `mapstructure:"mock_latency"`
}

type GenAI struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Storage struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redis_addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
}

type Events struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Tracing struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

type Ops struct {
	Addr string `mapstructure:"addr"`
}

type UI struct {
	// Sort is the grid order at startup, one of the domain sort keys
	Sort string `mapstructure:"sort"`
}

// Config is the storefront configuration
type Config struct {
	LogLevel    string  `mapstructure:"log_level"`
	LogFile     string  `mapstructure:"log_file"`
	Environment string  `mapstructure:"environment"`
	ServiceName string  `mapstructure:"service_name"`
	Backend     Backend `mapstructure:"backend"`
	GenAI       GenAI   `mapstructure:"genai"`
	Storage     Storage `mapstructure:"storage"`
	Events      Events  `mapstructure:"events"`
	Tracing     Tracing `mapstructure:"tracing"`
	Ops         Ops     `mapstructure:"ops"`
	UI          UI      `mapstructure:"ui"`
}

// IsDevelopment reports whether logs should be human readable
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads defaults, the optional config file, STOREFRONT_* variables and
// command line flags, in increasing priority
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	configFile := fs.String("config", "", "config file")
	fs.String("backend", DriverMemory, "backend driver: memory or supabase")
	fs.String("log-level", "info", "log level")
	fs.String("ops-addr", "", "ops endpoint address, empty to disable")
	fs.String("sort", string(domain.SortDefault), "initial product order: default, price-asc, price-desc, name-asc or name-desc")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("genai.api_key", envPrefix+"_GENAI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return Config{}, err
	}

	for key, flag := range map[string]string{
		"backend.driver": "backend",
		"log_level":      "log-level",
		"ops.addr":       "ops-addr",
		"ui.sort":        "sort",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return Config{}, err
		}
	}

	path := *configFile
	if env, ok := os.LookupEnv(configFileEnvName); ok && path == "" {
		path = env
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	dir := appDir()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dir, "storefront.log"))
	v.SetDefault("environment", "development")
	v.SetDefault("service_name", "affiliate-reviews")

	v.SetDefault("backend.driver", DriverMemory)
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.anon_key", "")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.bulk_function", "create-products-from-ai")
	v.SetDefault("backend.mock_latency", 500*time.Millisecond)

	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.model", "gemini-2.5-flash")
	v.SetDefault("genai.timeout", 60*time.Second)

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.path", filepath.Join(dir, "state.yaml"))
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.password", "")
	v.SetDefault("storage.db", 0)

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "storefront-activity")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")

	v.SetDefault("ops.addr", "")

	v.SetDefault("ui.sort", string(domain.SortDefault))
}

func appDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, appDirName)
}

// Validate rejects combinations the storefront cannot start with
func (c Config) Validate() error {
	var errs []error

	switch c.Backend.Driver {
	case DriverMemory:
	case DriverSupabase:
		if c.Backend.URL == "" || c.Backend.AnonKey == "" {
			errs = append(errs, errors.New("backend.url and backend.anon_key are required for the supabase backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend driver %q", c.Backend.Driver))
	}

	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for file storage"))
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		errs = append(errs, errors.New("events.topic is required when brokers are set"))
	}

	if _, err := domain.ParseSortKey(c.UI.Sort); err != nil {
		errs = append(errs, fmt.Errorf("ui.sort: %w", err))
	}

	return errors.Join(errs...)
}
