package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
)

const (
	insertMessageSQL = `INSERT INTO messages (id, wallet_address, sender_name, text, created_at)
VALUES ($1, $2, $3, $4, $5)`

	seedMessageSQL = `INSERT INTO messages (id, wallet_address, sender_name, text, created_at)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`

	listMessagesSQL = `SELECT id, wallet_address, sender_name, text, created_at
FROM messages ORDER BY created_at DESC, seq DESC`
)

// MessageRepo implements storage.MessageLog on the messages table.
type MessageRepo struct {
	db  *DB
	now func() time.Time
}

var (
	_ storage.MessageLog = (*MessageRepo)(nil)
	_ storage.Seeder     = (*MessageRepo)(nil)
	_ storage.Pinger     = (*MessageRepo)(nil)
)

// NewMessageRepo creates a new PostgreSQL message repository.
func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db, now: time.Now}
}

// Append inserts a new message row.
func (r *MessageRepo) Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error) {
	msg := entry.Materialize(r.now())
	// timestamptz keeps microseconds; return what a later List will read.
	msg.CreatedAt = msg.CreatedAt.Truncate(time.Microsecond)
	_, err := r.db.ExecContext(ctx, insertMessageSQL,
		msg.ID, msg.WalletAddress, msg.SenderName, msg.Text, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert message: %v", domain.ErrStorage, err)
	}
	return msg, nil
}

// List returns up to limit messages, newest first. limit <= 0 returns all.
func (r *MessageRepo) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	var (
		rows []domain.Message
		err  error
	)
	if limit > 0 {
		err = r.db.SelectContext(ctx, &rows, listMessagesSQL+" LIMIT $1", limit)
	} else {
		err = r.db.SelectContext(ctx, &rows, listMessagesSQL)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list messages: %v", domain.ErrStorage, err)
	}

	messages := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		rows[i].CreatedAt = rows[i].CreatedAt.UTC()
		messages = append(messages, &rows[i])
	}
	return messages, nil
}

// Seed imports records keeping their IDs and timestamps.
func (r *MessageRepo) Seed(ctx context.Context, messages []*domain.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range messages {
		if _, err := tx.ExecContext(ctx, seedMessageSQL,
			m.ID, m.WalletAddress, m.SenderName, m.Text, m.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("failed to seed message %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (r *MessageRepo) Ping(ctx context.Context) error { return r.db.Health(ctx) }

// StartMetricsCollector reports pool usage until ctx is done.
func (r *MessageRepo) StartMetricsCollector(ctx context.Context) { r.db.StartMetricsCollector(ctx) }

func (r *MessageRepo) Name() string    { return "postgres" }
func (r *MessageRepo) Queryable() bool { return true }
func (r *MessageRepo) Durable() bool   { return true }
func (r *MessageRepo) Close() error    { return r.db.Close() }
