package config

import (
	"time"

	redisclient "github.com/vietddude/warroom/internal/infra/redis"
	"github.com/vietddude/warroom/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Ledger   LedgerConfig       `yaml:"ledger"`
	Gate     GateConfig         `yaml:"gate"`
	Storage  StorageConfig      `yaml:"storage"`
	Database postgres.Config    `yaml:"database"`
	Redis    redisclient.Config `yaml:"redis"`
	Realtime RealtimeConfig     `yaml:"realtime"`
	Posting  PostingConfig      `yaml:"posting"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LedgerConfig holds the Solana JSON-RPC endpoint settings.
type LedgerConfig struct {
	RPCURL     string        `yaml:"rpc_url"`
	Timeout    time.Duration `yaml:"timeout"`
	Commitment string        `yaml:"commitment"`
}

// GateConfig holds the holder gate settings.
type GateConfig struct {
	Mint    string   `yaml:"mint"`
	MinHold *float64 `yaml:"min_hold"`
}

// MinHoldAmount returns the threshold, falling back to the default.
func (g GateConfig) MinHoldAmount() float64 {
	if g.MinHold == nil {
		return DefaultMinHold
	}
	return *g.MinHold
}

// StorageConfig selects and tunes the message backend.
type StorageConfig struct {
	// Backend is auto, postgres, redis, file or memory.
	Backend     string `yaml:"backend"`
	PageLimit   int    `yaml:"page_limit"`
	BundledPath string `yaml:"bundled_path"`
	ScratchDir  string `yaml:"scratch_dir"` // empty = os.TempDir()
}

// RealtimeConfig controls websocket fan-out.
type RealtimeConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	RedisURL string `yaml:"redis_url"`
	Channel  string `yaml:"channel"`
}

// IsEnabled reports whether realtime fan-out is on; it is on unless disabled.
func (r RealtimeConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// PostingConfig holds the per-wallet posting rate.
type PostingConfig struct {
	RatePerMinute int `yaml:"rate_per_minute"` // 0 = unlimited
	Burst         int `yaml:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json, text
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}
