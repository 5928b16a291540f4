package realtime

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/warroom/internal/core/domain"
	redisclient "github.com/vietddude/warroom/internal/infra/redis"
)

// TestRelay_Live publishes through RedisPublisher and expects the relay to
// hand the event to a websocket client of the local hub. Set
// WARROOM_TEST_REDIS_URL to a disposable Redis to enable it.
func TestRelay_Live(t *testing.T) {
	url := os.Getenv("WARROOM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping live relay test. Set WARROOM_TEST_REDIS_URL to run.")
	}

	client, err := redisclient.NewClient(redisclient.Config{URL: url})
	require.NoError(t, err)
	defer client.Close()

	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	admin := goredis.NewClient(opts)
	defer admin.Close()

	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	channel := fmt.Sprintf("warroom:test:relay:%d", time.Now().UnixNano())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Relay(ctx, client, channel, hub) }()

	require.Eventually(t, func() bool {
		subs, err := admin.PubSubNumSub(context.Background(), channel).Result()
		return err == nil && subs[channel] > 0
	}, 5*time.Second, 20*time.Millisecond)

	pub := NewRedisPublisher(client, channel)
	msg := &domain.Message{ID: "m1", WalletAddress: "w", SenderName: "n", Text: "gm", CreatedAt: time.Now().UTC()}
	require.NoError(t, pub.Broadcast(context.Background(), msg))

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "message", ev.Type)
	require.NotNil(t, ev.Message)
	assert.Equal(t, "m1", ev.Message.ID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
