package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
)

// LoadBundled reads the read-only seed file, a JSON array of messages.
// A missing file yields an empty list. Entries without an ID are dropped.
func LoadBundled(path string) ([]*domain.Message, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bundled messages: %w", err)
	}

	var messages []*domain.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode bundled messages: %w", err)
	}

	out := messages[:0]
	for _, m := range messages {
		if m == nil || m.ID == "" {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// BundledLog serves the bundled seed when no writable tier exists.
type BundledLog struct {
	messages []*domain.Message
}

var _ storage.MessageLog = (*BundledLog)(nil)

func NewBundledLog(messages []*domain.Message) *BundledLog {
	return &BundledLog{messages: messages}
}

func (b *BundledLog) Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error) {
	return nil, fmt.Errorf("%w: bundled message store is read-only", domain.ErrStorage)
}

func (b *BundledLog) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	out := make([]*domain.Message, len(b.messages))
	for i, m := range b.messages {
		cp := *m
		out[i] = &cp
	}
	storage.SortNewestFirst(out)
	return out, nil
}

func (b *BundledLog) Name() string    { return "bundled" }
func (b *BundledLog) Queryable() bool { return false }
func (b *BundledLog) Close() error    { return nil }
