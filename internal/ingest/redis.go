package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soltixdb/gorillastore/internal/logging"
)

// RedisConfig holds Redis Streams subscriber configuration
type RedisConfig struct {
	URL      string
	Group    string
	Consumer string
}

// RedisSubscriber implements Subscriber using Redis Streams consumer groups.
// Each subject maps to one stream; messages carry the payload under the
// "data" field.
type RedisSubscriber struct {
	client *redis.Client
	cfg    RedisConfig
	mu     sync.Mutex
	subs   map[string]context.CancelFunc
}

// NewRedisSubscriber connects to the Redis server described by cfg
func NewRedisSubscriber(cfg RedisConfig) (*RedisSubscriber, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Accept a bare host:port as well
		if !strings.Contains(cfg.URL, "://") {
			opts = &redis.Options{Addr: cfg.URL}
		} else {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
	}
	return &RedisSubscriber{
		client: redis.NewClient(opts),
		cfg:    cfg,
		subs:   make(map[string]context.CancelFunc),
	}, nil
}

// Subscribe starts a consumer-group read loop on the stream named subject
func (s *RedisSubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	// Create the group up front; BUSYGROUP means it already exists.
	if err := s.client.XGroupCreateMkStream(ctx, subject, s.cfg.Group, "$").Err(); err != nil {
		if !strings.Contains(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("failed to create consumer group: %w", err)
		}
	}

	subCtx, cancel := context.WithCancel(ctx)
	s.subs[subject] = cancel

	go s.readLoop(subCtx, subject, handler)
	return nil
}

func (s *RedisSubscriber) readLoop(ctx context.Context, subject string, handler MessageHandler) {
	log := logging.Global().With("component", "ingest.redis", "stream", subject)
	for {
		if ctx.Err() != nil {
			return
		}
		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.cfg.Group,
			Consumer: s.cfg.Consumer,
			Streams:  []string{subject, ">"},
			Count:    100,
			Block:    time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Warn("Redis read failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				payload, ok := msg.Values["data"].(string)
				if !ok {
					log.Warn("Message without data field", "id", msg.ID)
					_ = s.client.XAck(ctx, subject, s.cfg.Group, msg.ID).Err()
					continue
				}
				if err := handler(ctx, []byte(payload)); err != nil {
					log.Debug("Handler rejected message", "id", msg.ID, "error", err)
				}
				_ = s.client.XAck(ctx, subject, s.cfg.Group, msg.ID).Err()
			}
		}
	}
}

// Close cancels all read loops and closes the client
func (s *RedisSubscriber) Close() error {
	s.mu.Lock()
	for subject, cancel := range s.subs {
		cancel()
		delete(s.subs, subject)
	}
	s.mu.Unlock()
	return s.client.Close()
}
