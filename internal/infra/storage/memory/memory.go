package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
)

// MessageLog keeps messages in process memory. It is used in tests and
// when storage.backend is "memory".
type MessageLog struct {
	mu       sync.RWMutex
	messages []*domain.Message
	now      func() time.Time
}

var (
	_ storage.MessageLog = (*MessageLog)(nil)
	_ storage.Seeder     = (*MessageLog)(nil)
)

func NewMessageLog() *MessageLog {
	return &MessageLog{now: time.Now}
}

// WithClock overrides the timestamp source.
func (s *MessageLog) WithClock(now func() time.Time) *MessageLog {
	s.now = now
	return s
}

func (s *MessageLog) Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := entry.Materialize(s.now())
	s.messages = append(s.messages, msg)
	stored := *msg
	return &stored, nil
}

func (s *MessageLog) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	out := make([]*domain.Message, len(s.messages))
	for i, m := range s.messages {
		cp := *m
		out[i] = &cp
	}
	s.mu.RUnlock()

	storage.SortNewestFirst(out)
	return out, nil
}

func (s *MessageLog) Seed(ctx context.Context, messages []*domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range messages {
		cp := *m
		s.messages = append(s.messages, &cp)
	}
	return nil
}

// Len returns the number of stored messages.
func (s *MessageLog) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *MessageLog) Name() string    { return "memory" }
func (s *MessageLog) Queryable() bool { return false }
func (s *MessageLog) Close() error    { return nil }
