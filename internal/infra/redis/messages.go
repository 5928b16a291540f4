package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
)

// MessageLog stores one JSON document per list element. RPUSH is atomic, so
// concurrent appends from any number of instances are never lost.
type MessageLog struct {
	client *Client
	key    string
	now    func() time.Time
}

var (
	_ storage.MessageLog = (*MessageLog)(nil)
	_ storage.Seeder     = (*MessageLog)(nil)
	_ storage.Pinger     = (*MessageLog)(nil)
)

func NewMessageLog(client *Client, key string) *MessageLog {
	if key == "" {
		key = DefaultMessagesKey
	}
	return &MessageLog{client: client, key: key, now: time.Now}
}

func (l *MessageLog) Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error) {
	msg := entry.Materialize(l.now())
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: encode message: %v", domain.ErrStorage, err)
	}
	if err := l.client.rdb.RPush(ctx, l.key, raw).Err(); err != nil {
		return nil, fmt.Errorf("%w: rpush failed: %v", domain.ErrStorage, err)
	}
	return msg, nil
}

// List returns the whole log; limit is ignored.
func (l *MessageLog) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	items, err := l.client.rdb.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: lrange failed: %v", domain.ErrStorage, err)
	}
	messages := decodeMessages(items)
	storage.SortNewestFirst(messages)
	return messages, nil
}

func (l *MessageLog) Seed(ctx context.Context, messages []*domain.Message) error {
	if len(messages) == 0 {
		return nil
	}
	values := make([]any, 0, len(messages))
	for _, m := range messages {
		raw, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode seed message: %w", err)
		}
		values = append(values, raw)
	}
	return l.client.rdb.RPush(ctx, l.key, values...).Err()
}

// decodeMessages keeps list order and drops entries that do not decode to a
// message with an ID.
func decodeMessages(items []string) []*domain.Message {
	out := make([]*domain.Message, 0, len(items))
	for i, item := range items {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil || m.ID == "" {
			slog.Warn("Skipping malformed message entry", "backend", "redis", "index", i, "error", err)
			continue
		}
		out = append(out, &m)
	}
	return out
}

func (l *MessageLog) Ping(ctx context.Context) error { return l.client.Ping(ctx) }

func (l *MessageLog) Name() string    { return "redis" }
func (l *MessageLog) Queryable() bool { return false }
func (l *MessageLog) Durable() bool   { return true }
func (l *MessageLog) Close() error    { return l.client.Close() }
