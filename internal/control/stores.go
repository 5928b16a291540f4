package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/warroom/internal/core/config"
	"github.com/vietddude/warroom/internal/core/domain"
	redisclient "github.com/vietddude/warroom/internal/infra/redis"
	"github.com/vietddude/warroom/internal/infra/storage"
	"github.com/vietddude/warroom/internal/infra/storage/file"
	"github.com/vietddude/warroom/internal/infra/storage/memory"
	"github.com/vietddude/warroom/internal/infra/storage/postgres"
)

// OpenStore selects the message backend once, following the configured
// backend or, for "auto", the ranking postgres, redis, file, bundled.
func OpenStore(ctx context.Context, cfg *config.AppConfig) (storage.MessageLog, error) {
	seed, err := file.LoadBundled(cfg.Storage.BundledPath)
	if err != nil {
		slog.Warn("Ignoring bundled messages", "path", cfg.Storage.BundledPath, "error", err)
		seed = nil
	}

	candidates, err := candidatesFor(cfg, seed)
	if err != nil {
		return nil, err
	}
	return storage.Select(ctx, candidates, seed)
}

func candidatesFor(cfg *config.AppConfig, seed []*domain.Message) ([]storage.Candidate, error) {
	pg := storage.Candidate{Name: "postgres", Open: func(ctx context.Context) (storage.MessageLog, error) {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return postgres.NewMessageRepo(db), nil
	}}
	rd := storage.Candidate{Name: "redis", Open: func(ctx context.Context) (storage.MessageLog, error) {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisclient.NewMessageLog(client, cfg.Redis.Key), nil
	}}
	fs := storage.Candidate{Name: "file", Open: func(ctx context.Context) (storage.MessageLog, error) {
		return file.Open(cfg.Storage.ScratchDir)
	}}
	bundled := storage.Candidate{Name: "bundled", Open: func(ctx context.Context) (storage.MessageLog, error) {
		return file.NewBundledLog(seed), nil
	}}
	mem := storage.Candidate{Name: "memory", Open: func(ctx context.Context) (storage.MessageLog, error) {
		return memory.NewMessageLog(), nil
	}}

	switch cfg.Storage.Backend {
	case "postgres":
		return []storage.Candidate{pg}, nil
	case "redis":
		return []storage.Candidate{rd}, nil
	case "file":
		return []storage.Candidate{fs, bundled}, nil
	case "memory":
		return []storage.Candidate{mem}, nil
	case "", "auto":
		var out []storage.Candidate
		if cfg.Database.URL != "" {
			out = append(out, pg)
		}
		if cfg.Redis.URL != "" {
			out = append(out, rd)
		}
		return append(out, fs, bundled), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrConfiguration, cfg.Storage.Backend)
	}
}
