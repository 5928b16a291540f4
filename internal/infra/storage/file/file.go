// Package file stores messages in a JSON-lines scratch file and serves the
// bundled read-only seed.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
)

// DefaultFileName is the scratch file created under the scratch directory.
const DefaultFileName = "warroom-messages.jsonl"

const maxLineSize = 1 << 20

// MessageLog appends one JSON object per line. Writes are serialised by mu
// so concurrent appends in this process never interleave.
type MessageLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
	log  *slog.Logger
}

var (
	_ storage.MessageLog = (*MessageLog)(nil)
	_ storage.Seeder     = (*MessageLog)(nil)
)

// Open creates the scratch file in dir (os.TempDir when empty) if needed and
// checks it is writable.
func Open(dir string) (*MessageLog, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	path := filepath.Join(dir, DefaultFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close scratch file: %w", err)
	}

	return &MessageLog{
		path: path,
		now:  time.Now,
		log:  slog.Default().With("backend", "file"),
	}, nil
}

// Path returns the scratch file location.
func (s *MessageLog) Path() string { return s.path }

func (s *MessageLog) Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := entry.Materialize(s.now())
	if err := s.writeLocked([]*domain.Message{msg}); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageLog) Seed(ctx context.Context, messages []*domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(messages)
}

func (s *MessageLog) writeLocked(messages []*domain.Message) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open scratch file: %v", domain.ErrStorage, err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, m := range messages {
		if err := enc.Encode(m); err != nil {
			f.Close()
			return fmt.Errorf("%w: encode message: %v", domain.ErrStorage, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: write scratch file: %v", domain.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close scratch file: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *MessageLog) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*domain.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open scratch file: %v", domain.ErrStorage, err)
	}
	defer f.Close()

	messages := []*domain.Message{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var m domain.Message
		if err := json.Unmarshal(raw, &m); err != nil || m.ID == "" {
			s.log.Warn("Skipping malformed message line", "line", line, "error", err)
			continue
		}
		messages = append(messages, &m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read scratch file: %v", domain.ErrStorage, err)
	}

	storage.SortNewestFirst(messages)
	return messages, nil
}

func (s *MessageLog) Name() string    { return "file" }
func (s *MessageLog) Queryable() bool { return false }
func (s *MessageLog) Close() error    { return nil }
