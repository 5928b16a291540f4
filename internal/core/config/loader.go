package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/vietddude/warroom/internal/core/domain"
)

const (
	DefaultPort        = 8080
	DefaultRPCURL      = "https://api.mainnet-beta.solana.com"
	DefaultMinHold     = domain.DefaultMinHold
	DefaultTimeout     = 10 * time.Second
	DefaultCommitment  = "confirmed"
	DefaultPageLimit   = 50
	DefaultBundledPath = "data/messages.json"
)

var backends = map[string]bool{
	"auto": true, "postgres": true, "redis": true, "file": true, "memory": true,
}

// envOverrides maps the deployment environment variables onto the config.
type envOverrides struct {
	Mint             string   `envconfig:"GATING_TOKEN_MINT"`
	RPCURL           string   `envconfig:"SOLANA_RPC_URL"`
	MinHold          *float64 `envconfig:"MIN_HOLD_AMOUNT"`
	DatabaseURL      string   `envconfig:"DATABASE_URL"`
	DatabaseMigrate  *bool    `envconfig:"DATABASE_MIGRATE"`
	RedisURL         string   `envconfig:"REDIS_URL"`
	RealtimeRedisURL string   `envconfig:"REALTIME_REDIS_URL"`
	Port             int      `envconfig:"PORT"`
	LogLevel         string   `envconfig:"LOG_LEVEL"`
}

// Load reads configuration from a YAML file, then applies environment
// overrides and defaults. A missing file is not an error.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	if env.Mint != "" {
		cfg.Gate.Mint = env.Mint
	}
	if env.RPCURL != "" {
		cfg.Ledger.RPCURL = env.RPCURL
	}
	if env.MinHold != nil {
		cfg.Gate.MinHold = env.MinHold
	}
	if env.DatabaseURL != "" {
		cfg.Database.URL = env.DatabaseURL
	}
	if env.DatabaseMigrate != nil {
		cfg.Database.Migrate = env.DatabaseMigrate
	}
	if env.RedisURL != "" {
		cfg.Redis.URL = env.RedisURL
	}
	if env.RealtimeRedisURL != "" {
		cfg.Realtime.RedisURL = env.RealtimeRedisURL
	}
	if env.Port > 0 {
		cfg.Server.Port = env.Port
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Ledger.RPCURL == "" {
		cfg.Ledger.RPCURL = DefaultRPCURL
	}
	if cfg.Ledger.Timeout == 0 {
		cfg.Ledger.Timeout = DefaultTimeout
	}
	if cfg.Ledger.Commitment == "" {
		cfg.Ledger.Commitment = DefaultCommitment
	}
	if cfg.Gate.MinHold == nil {
		v := float64(DefaultMinHold)
		cfg.Gate.MinHold = &v
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "auto"
	}
	if cfg.Storage.PageLimit == 0 {
		cfg.Storage.PageLimit = DefaultPageLimit
	}
	if cfg.Storage.BundledPath == "" {
		cfg.Storage.BundledPath = DefaultBundledPath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate rejects settings that can never work. A missing gating mint is
// allowed here; requests then fail with a configuration error.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d", domain.ErrConfiguration, c.Server.Port)
	}
	if !backends[c.Storage.Backend] {
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrConfiguration, c.Storage.Backend)
	}
	if c.Storage.PageLimit < 0 {
		return fmt.Errorf("%w: page_limit must not be negative", domain.ErrConfiguration)
	}
	if c.Gate.MinHold != nil && *c.Gate.MinHold < 0 {
		return fmt.Errorf("%w: min_hold must not be negative", domain.ErrConfiguration)
	}
	if c.Posting.RatePerMinute < 0 {
		return fmt.Errorf("%w: rate_per_minute must not be negative", domain.ErrConfiguration)
	}
	return nil
}
