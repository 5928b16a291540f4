package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/warroom/internal/control"
	"github.com/vietddude/warroom/internal/core/config"
	"github.com/vietddude/warroom/internal/logging"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "warroom",
	Short: "War Room holder-gated chat service",
	Long:  `War Room serves a chat feed that only wallets holding the gating SPL token can post to.`,
	Run:   runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Run:   runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads .env and the config file, then installs the logger. The
// returned closer flushes the log file and must be closed before exit.
func loadConfig() (*config.AppConfig, io.Closer, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		return nil, nil, err
	}

	return cfg, logging.Setup(cfg.Logging, isDebug), nil
}

// run loads config and logging, calls fn and exits non-zero on failure. fn
// returns before os.Exit so its deferred cleanup always runs.
func run(fn func(cfg *config.AppConfig) error) {
	cfg, logs, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	err = fn(cfg)
	if err != nil {
		slog.Error("Command failed", "error", err)
	}
	_ = logs.Close()
	if err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	run(serve)
}

func serve(cfg *config.AppConfig) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize War Room: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := app.Start(ctx); err != nil {
		_ = app.Stop(context.Background())
		return fmt.Errorf("failed to start War Room: %w", err)
	}

	slog.Info("War Room started", "config", cfgPath)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
