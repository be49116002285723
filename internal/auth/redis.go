package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// EventsChannel is the pub/sub channel session changes are published on.
const EventsChannel = "optivus:auth-events"

// RedisBus shares session changes between instances over Redis pub/sub.
type RedisBus struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedisBus(addr, password string, db int, logger *log.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &RedisBus{client: client, logger: logger}, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.client.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context) (Subscription, error) {
	ps := b.client.Subscribe(ctx, EventsChannel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", EventsChannel, err)
	}

	s := &redisSub{ps: ps, ch: make(chan Event, 64), quit: make(chan struct{})}
	go s.pump(b.logger)
	return s, nil
}

type redisSub struct {
	ps   *redis.PubSub
	ch   chan Event
	quit chan struct{}
	once sync.Once
}

func (s *redisSub) pump(logger *log.Logger) {
	defer close(s.ch)
	for msg := range s.ps.Channel() {
		var ev Event
		if err := sonic.UnmarshalString(msg.Payload, &ev); err != nil {
			logger.Warn("dropping malformed auth event", "err", err)
			continue
		}
		select {
		case s.ch <- ev:
		case <-s.quit:
			return
		}
	}
}

func (s *redisSub) Events() <-chan Event { return s.ch }

func (s *redisSub) Close() error {
	var err error
	s.once.Do(func() {
		close(s.quit)
		err = s.ps.Close()
	})
	return err
}
