// Package redisimpl delivers broadcasts over Redis Pub/Sub. Events are
// wrapped in a small JSON envelope so multiple event types can share one
// channel.
package redisimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type RedisImpl struct {
	cli    *redis.Client
	Logger logger.Logger
}

func New(opts Opts) (*RedisImpl, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     opts.Config.Redis.Addr,
		Password: opts.Config.Redis.Pass,
		DB:       opts.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisImpl{
		cli:    cli,
		Logger: opts.Logger.WithComponent("RedisPubSub"),
	}, nil
}

var _ pubsub.Client = (*RedisImpl)(nil)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type subscription struct {
	ps   *redis.PubSub
	done chan struct{}
}

// Unsubscribe closes the underlying Redis subscription and waits for the
// receive loop to drain, so no handler runs after it returns.
func (s *subscription) Unsubscribe(ctx context.Context) error {
	err := s.ps.Close()
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// Subscribe binds handler to event on channel. Messages are dispatched
// from a single goroutine per subscription, preserving arrival order.
func (r *RedisImpl) Subscribe(ctx context.Context, channel, event string, handler pubsub.Handler) (pubsub.Subscription, error) {
	ps := r.cli.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	sub := &subscription{ps: ps, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for msg := range ps.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.Logger.Warn("Dropping malformed broadcast", "channel", msg.Channel, "error", err)
				continue
			}
			if env.Event != event {
				continue
			}
			handler(pubsub.Message{
				Channel: msg.Channel,
				Event:   env.Event,
				Data:    env.Data,
			})
		}
	}()

	return sub, nil
}

func (r *RedisImpl) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	body, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := r.cli.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}
