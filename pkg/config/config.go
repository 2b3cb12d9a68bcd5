package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockTerm/pkg/logger"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		AllowOrigins    []string      `yaml:"allow_origins"`
		RateLimit       struct {
			Enabled bool          `yaml:"enabled" default:"true"`
			Limit   int           `yaml:"limit" default:"60"`
			Window  time.Duration `yaml:"window" default:"1m"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log     logger.Config `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Quotes struct {
		BaseURL         string        `yaml:"base_url" default:"http://localhost:5000"`
		Symbols         []string      `yaml:"symbols"`
		Suffix          string        `yaml:"suffix" default:".NS"`
		Timeout         time.Duration `yaml:"timeout" default:"10s"`
		RefreshInterval time.Duration `yaml:"refresh_interval" default:"60s"`
		// StaleAfter defaults to three refresh intervals when zero.
		StaleAfter time.Duration `yaml:"stale_after"`
	} `yaml:"quotes"`
	News struct {
		CacheTTL time.Duration `yaml:"cache_ttl" default:"2m"`
	} `yaml:"news"`
	Search struct {
		CatalogPath string        `yaml:"catalog_path"`
		MaxResults  int           `yaml:"max_results" default:"8"`
		Debounce    time.Duration `yaml:"debounce" default:"500ms"`
	} `yaml:"search"`
	Store struct {
		Type   string `yaml:"type" default:"memory"` // memory or redis
		Prefix string `yaml:"prefix" default:"stockterm:"`
		Redis  struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"store"`
	History struct {
		Enabled    bool `yaml:"enabled"`
		ClickHouse struct {
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"9000"`
			Database     string        `yaml:"database" default:"stockterm"`
			User         string        `yaml:"user" default:"default"`
			Password     string        `yaml:"password"`
			Table        string        `yaml:"table" default:"quote_snapshots"`
			UseHTTP      bool          `yaml:"use_http"`
			DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
			AsyncInsert  bool          `yaml:"async_insert"`
			MaxExecTime  time.Duration `yaml:"max_execution_time" default:"60s"`
		} `yaml:"clickhouse"`
	} `yaml:"history"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"stockterm.holdings"`
		RequiredAcks int           `yaml:"required_acks" default:"1"`
		Compression  string        `yaml:"compression" default:"snappy"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"events"`
	Predict struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"predict"`
}

// Load reads and parses a YAML configuration file. Struct defaults are
// applied first so the file only needs to name what it changes.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if path == "" {
		return &c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env (if present), then the YAML file, then applies
// environment variable overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("QUOTES_BASE_URL"); v != "" {
		c.Quotes.BaseURL = v
	}
	if v := os.Getenv("QUOTES_SYMBOLS"); v != "" {
		c.Quotes.Symbols = splitList(v)
	}
	if v := os.Getenv("STORE_TYPE"); v != "" {
		c.Store.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("PREDICT_SERVICE_URL"); v != "" {
		c.Predict.ServiceURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// QuoteStaleAfter is how long a fetched quote stays usable.
func (c *Config) QuoteStaleAfter() time.Duration {
	if c.Quotes.StaleAfter > 0 {
		return c.Quotes.StaleAfter
	}
	return 3 * c.Quotes.RefreshInterval
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	if c.Store.Type != "memory" && c.Store.Type != "redis" {
		return fmt.Errorf("store.type must be 'memory' or 'redis', got '%s'", c.Store.Type)
	}
	if c.Store.Type == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for redis store")
	}
	if c.Quotes.BaseURL == "" {
		return fmt.Errorf("quotes.base_url is required")
	}
	if c.Quotes.RefreshInterval <= 0 {
		return fmt.Errorf("quotes.refresh_interval must be positive")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.Limit <= 0 || c.Server.RateLimit.Window <= 0) {
		return fmt.Errorf("server.rate_limit needs a positive limit and window")
	}
	if c.History.Enabled && c.History.ClickHouse.Host == "" {
		return fmt.Errorf("history.clickhouse.host is required when history is enabled")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	return nil
}
