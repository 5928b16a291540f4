package storage

import (
	"context"
	"slices"

	"github.com/vietddude/warroom/internal/core/domain"
)

// MessageLog is the uniform interface over every message backend.
type MessageLog interface {
	// Append assigns ID and CreatedAt to entry, persists it and returns the record.
	Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error)

	// List returns messages newest first. A limit <= 0 means no limit;
	// backends that are not Queryable ignore it.
	List(ctx context.Context, limit int) ([]*domain.Message, error)

	// Name identifies the backend (e.g., "postgres", "redis", "file")
	Name() string

	// Queryable reports whether List honours limit server-side.
	Queryable() bool

	// Close releases backend resources
	Close() error
}

// Seeder is implemented by backends that can import existing records
// verbatim, keeping their IDs and timestamps.
type Seeder interface {
	Seed(ctx context.Context, messages []*domain.Message) error
}

// Pinger is implemented by backends with a remote health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Durable is implemented by backends whose data survives redeploys.
type Durable interface {
	Durable() bool
}

// SortNewestFirst orders messages by CreatedAt descending. The input must be
// in insertion order; equal timestamps then come out newest-inserted first.
func SortNewestFirst(messages []*domain.Message) {
	slices.Reverse(messages)
	slices.SortStableFunc(messages, func(a, b *domain.Message) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// IsDurable reports whether log keeps data across redeploys.
func IsDurable(log MessageLog) bool {
	d, ok := log.(Durable)
	return ok && d.Durable()
}
