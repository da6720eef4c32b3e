package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"multibank/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// rateChannel carries every published snapshot.
	rateChannel = "rates:stream"
	// rateLatestKey holds the current snapshot so new subscribers are not
	// stale before the next refresh arrives.
	rateLatestKey = "rates:latest"
)

// RateBus implements ports.RateBroadcaster and ports.RateSubscriber over
// Redis pub/sub. go-redis re-establishes dropped subscriptions internally,
// which gives reconnection for free.
type RateBus struct {
	client *goredis.Client
	log    zerolog.Logger
}

// NewRateBus creates a new RateBus.
func NewRateBus(client *goredis.Client, log zerolog.Logger) *RateBus {
	return &RateBus{client: client, log: log}
}

// Publish caches the snapshot as current and fans it out to subscribers.
func (b *RateBus) Publish(ctx context.Context, rate *domain.ExchangeRate) error {
	payload, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("marshal rate snapshot: %w", err)
	}

	pipe := b.client.Pipeline()
	pipe.Set(ctx, rateLatestKey, payload, 0)
	pipe.Publish(ctx, rateChannel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish rate snapshot: %w", err)
	}
	return nil
}

// Latest returns the cached current snapshot, nil when none was ever published.
func (b *RateBus) Latest(ctx context.Context) (*domain.ExchangeRate, error) {
	payload, err := b.client.Get(ctx, rateLatestKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest rate snapshot: %w", err)
	}

	rate := &domain.ExchangeRate{}
	if err := json.Unmarshal(payload, rate); err != nil {
		return nil, fmt.Errorf("unmarshal rate snapshot: %w", err)
	}
	return rate, nil
}

// Subscribe opens a push-style subscription. The current snapshot (if any)
// is delivered first, then every published refresh. Slow consumers lose
// intermediate snapshots rather than blocking the fan-out.
func (b *RateBus) Subscribe(ctx context.Context) (<-chan domain.ExchangeRate, func(), error) {
	sub := b.client.Subscribe(ctx, rateChannel)

	// Force the subscription to be established before priming, so no
	// refresh slips between the cache read and the first message.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe to rate channel: %w", err)
	}

	out := make(chan domain.ExchangeRate, 8)

	if current, err := b.Latest(ctx); err != nil {
		b.log.Warn().Err(err).Msg("rate subscribe: priming snapshot unavailable")
	} else if current != nil {
		out <- *current
	}

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var rate domain.ExchangeRate
			if err := json.Unmarshal([]byte(msg.Payload), &rate); err != nil {
				b.log.Warn().Err(err).Msg("rate subscribe: dropping malformed snapshot")
				continue
			}
			select {
			case out <- rate:
			default:
				b.log.Debug().Msg("rate subscribe: slow consumer, snapshot dropped")
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
