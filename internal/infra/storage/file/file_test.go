package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
)

func TestOpen_CreatesScratchFile(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultFileName), log.Path())
	_, err = os.Stat(log.Path())
	assert.NoError(t, err)
	assert.False(t, storage.IsDurable(log))
}

func TestMessageLog_AppendPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Open(dir)
	require.NoError(t, err)
	stored, err := first.Append(ctx, domain.NewMessage{WalletAddress: "w", SenderName: "Holder_w", Text: "gm"})
	require.NoError(t, err)

	second, err := Open(dir)
	require.NoError(t, err)
	list, err := second.List(ctx, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stored.ID, list[0].ID)
	assert.Equal(t, "gm", list[0].Text)
	assert.True(t, stored.CreatedAt.Equal(list[0].CreatedAt))
}

func TestMessageLog_ReturnsEverythingIgnoringLimit(t *testing.T) {
	ctx := context.Background()
	log, err := Open(t.TempDir())
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		_, err := log.Append(ctx, domain.NewMessage{Text: "x"})
		require.NoError(t, err)
	}

	list, err := log.List(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, list, 60)
	assert.False(t, log.Queryable())
}

func TestMessageLog_NewestFirstWithTies(t *testing.T) {
	ctx := context.Background()
	log, err := Open(t.TempDir())
	require.NoError(t, err)

	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return fixed }
	a, _ := log.Append(ctx, domain.NewMessage{Text: "a"})
	b, _ := log.Append(ctx, domain.NewMessage{Text: "b"})

	log.now = func() time.Time { return fixed.Add(-time.Hour) }
	older, _ := log.Append(ctx, domain.NewMessage{Text: "older"})

	list, err := log.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)
}

func TestMessageLog_SkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	log, err := Open(t.TempDir())
	require.NoError(t, err)

	stored, err := log.Append(ctx, domain.NewMessage{Text: "ok"})
	require.NoError(t, err)

	f, err := os.OpenFile(log.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n\n{\"text\":\"no id\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	list, err := log.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stored.ID, list[0].ID)
}

func TestMessageLog_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	log, err := Open(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := log.Append(ctx, domain.NewMessage{Text: "concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := log.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 40)
}

func TestMessageLog_Seed(t *testing.T) {
	ctx := context.Background()
	log, err := Open(t.TempDir())
	require.NoError(t, err)

	seed := []*domain.Message{
		{ID: "s1", WalletAddress: "w", SenderName: "n", Text: "first", CreatedAt: time.Unix(100, 0).UTC()},
		{ID: "s2", WalletAddress: "w", SenderName: "n", Text: "second", CreatedAt: time.Unix(200, 0).UTC()},
	}

	selected, err := storage.Select(ctx, []storage.Candidate{{
		Name: "file",
		Open: func(context.Context) (storage.MessageLog, error) { return log, nil },
	}}, seed)
	require.NoError(t, err)

	list, err := selected.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
	assert.Equal(t, "s1", list[1].ID)

	// A non-empty log is not seeded twice.
	_, err = storage.Select(ctx, []storage.Candidate{{
		Name: "file",
		Open: func(context.Context) (storage.MessageLog, error) { return log, nil },
	}}, seed)
	require.NoError(t, err)
	list, err = log.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLoadBundled(t *testing.T) {
	dir := t.TempDir()

	missing, err := LoadBundled(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	path := filepath.Join(dir, "messages.json")
	body := `[
		{"id":"b1","walletAddress":"w","senderName":"n","text":"hello","createdAt":"2025-01-01T00:00:00Z"},
		{"walletAddress":"w","text":"no id"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	messages, err := LoadBundled(path)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Text)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadBundled(path)
	assert.Error(t, err)
}

func TestBundledLog_ReadOnly(t *testing.T) {
	ctx := context.Background()
	log := NewBundledLog([]*domain.Message{
		{ID: "old", CreatedAt: time.Unix(1, 0)},
		{ID: "new", CreatedAt: time.Unix(2, 0)},
	})

	_, err := log.Append(ctx, domain.NewMessage{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrStorage)

	list, err := log.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
}
