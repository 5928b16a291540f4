package realtime

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vietddude/warroom/internal/core/domain"
)

// DefaultChannel is the pub/sub channel shared by all instances.
const DefaultChannel = "warroom:realtime"

// Publisher sends raw payloads on a pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Subscriber opens a pub/sub subscription.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) *goredis.PubSub
}

// RedisPublisher fans messages out to every instance. Each instance runs
// Relay to hand them to its own Hub.
type RedisPublisher struct {
	pub     Publisher
	channel string
}

func NewRedisPublisher(pub Publisher, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{pub: pub, channel: channel}
}

func (p *RedisPublisher) Broadcast(ctx context.Context, msg *domain.Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.pub.Publish(ctx, p.channel, payload)
}

func (p *RedisPublisher) Close() error { return nil }

// Relay forwards every payload received on channel to hub until ctx is done.
func Relay(ctx context.Context, sub Subscriber, channel string, hub *Hub) error {
	if channel == "" {
		channel = DefaultChannel
	}
	ps := sub.Subscribe(ctx, channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	slog.Info("Realtime relay subscribed", "channel", channel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			hub.Deliver([]byte(m.Payload))
		}
	}
}
