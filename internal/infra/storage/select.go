package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/warroom/internal/core/domain"
)

// Candidate is one entry of the ranked backend list.
type Candidate struct {
	Name string
	Open func(ctx context.Context) (MessageLog, error)
}

// Select opens candidates in order and returns the first that succeeds.
// The choice is made once; callers use the returned log for the whole
// process lifetime. When seed is non-empty and the chosen backend is empty
// and implements Seeder, the seed records are imported.
func Select(ctx context.Context, candidates []Candidate, seed []*domain.Message) (MessageLog, error) {
	var errs []error
	for _, c := range candidates {
		log, err := c.Open(ctx)
		if err != nil {
			slog.Warn("Message backend unavailable", "backend", c.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}

		if len(seed) > 0 {
			if err := seedIfEmpty(ctx, log, seed); err != nil {
				slog.Warn("Failed to seed message backend", "backend", log.Name(), "error", err)
			}
		}

		slog.Info("Using message backend", "backend", log.Name(), "durable", IsDurable(log))
		return log, nil
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrStorage, errors.Join(errs...))
}

func seedIfEmpty(ctx context.Context, log MessageLog, seed []*domain.Message) error {
	seeder, ok := log.(Seeder)
	if !ok {
		return nil
	}
	existing, err := log.List(ctx, 1)
	if err != nil {
		return fmt.Errorf("probe existing messages: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if err := seeder.Seed(ctx, seed); err != nil {
		return err
	}
	slog.Info("Seeded message backend from bundled file", "backend", log.Name(), "count", len(seed))
	return nil
}
