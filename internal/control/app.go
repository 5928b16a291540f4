package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/warroom/internal/core/chat"
	"github.com/vietddude/warroom/internal/core/config"
	"github.com/vietddude/warroom/internal/health"
	"github.com/vietddude/warroom/internal/infra/realtime"
	redisclient "github.com/vietddude/warroom/internal/infra/redis"
	"github.com/vietddude/warroom/internal/infra/rpc"
	"github.com/vietddude/warroom/internal/infra/storage"
	"github.com/vietddude/warroom/internal/server"
)

// App is the main application struct that manages the service lifecycle.
type App struct {
	cfg         *config.AppConfig
	store       storage.MessageLog
	provider    *rpc.HTTPProvider
	hub         *realtime.Hub
	broadcaster chat.Broadcaster
	relayClient *redisclient.Client
	server      *server.Server
	log         *slog.Logger
}

// NewApp builds every component from cfg. The message backend is selected
// here, once.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{
		cfg: cfg,
		log: slog.Default().With("component", "app"),
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %w", err)
	}
	a.store = store

	verifier, provider := NewVerifier(cfg)
	a.provider = provider
	if cfg.Gate.Mint == "" {
		a.log.Warn("GATING_TOKEN_MINT is not configured; holder checks will fail")
	}

	a.setupRealtime()

	svc := chat.NewService(store, verifier, a.broadcaster, chat.Config{
		PageLimit:     cfg.Storage.PageLimit,
		RatePerMinute: cfg.Posting.RatePerMinute,
		Burst:         cfg.Posting.Burst,
	})

	var ledger health.LedgerProvider
	if provider != nil {
		ledger = provider
	}

	deps := server.Deps{
		Verifier: verifier,
		Chat:     svc,
		Monitor:  health.NewMonitor(ledger, store),
	}
	if a.hub != nil {
		deps.Stream = a.hub
	}
	a.server = server.NewServer(cfg.Server.Port, deps)

	return a, nil
}

func (a *App) setupRealtime() {
	if !a.cfg.Realtime.IsEnabled() {
		a.broadcaster = realtime.Nop{}
		return
	}

	a.hub = realtime.NewHub()
	a.broadcaster = a.hub

	if a.cfg.Realtime.RedisURL == "" {
		return
	}
	client, err := redisclient.NewClient(redisclient.Config{URL: a.cfg.Realtime.RedisURL})
	if err != nil {
		a.log.Warn("Realtime relay unavailable, broadcasting locally", "error", err)
		return
	}
	a.relayClient = client
	a.broadcaster = realtime.NewRedisPublisher(client, a.cfg.Realtime.Channel)
}

// Store returns the selected message backend.
func (a *App) Store() storage.MessageLog {
	return a.store
}

// Start starts the HTTP server and background tasks.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()

	if a.relayClient != nil {
		go func() {
			if err := realtime.Relay(ctx, a.relayClient, a.cfg.Realtime.Channel, a.hub); err != nil {
				a.log.Error("Realtime relay stopped", "error", err)
			}
		}()
	}

	if c, ok := a.store.(interface{ StartMetricsCollector(context.Context) }); ok {
		c.StartMetricsCollector(ctx)
	}

	a.log.Info("War Room started",
		"port", a.cfg.Server.Port,
		"backend", a.store.Name(),
		"durable", storage.IsDurable(a.store),
		"realtime", a.cfg.Realtime.IsEnabled(),
	)
	return nil
}

// Stop stops the app.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping War Room...")

	var errs []error
	if err := a.server.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}
	if a.hub != nil {
		_ = a.hub.Close()
	}
	if a.relayClient != nil {
		if err := a.relayClient.Close(); err != nil {
			a.log.Warn("Failed to close realtime Redis", "error", err)
		}
	}
	if a.provider != nil {
		_ = a.provider.Close()
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("message store: %w", err))
	}
	return errors.Join(errs...)
}
