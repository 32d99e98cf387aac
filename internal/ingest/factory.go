package ingest

import (
	"fmt"
	"strings"

	"github.com/soltixdb/gorillastore/internal/config"
)

// NewSubscriber creates a Subscriber based on configuration. Default is the
// in-memory broker when no type is specified.
func NewSubscriber(cfg config.IngestConfig) (Subscriber, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return NewMemorySubscriber(), nil

	case "nats":
		return NewNATSSubscriber(cfg.URL)

	case "redis":
		return NewRedisSubscriber(RedisConfig{
			URL:      cfg.URL,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case "kafka":
		return NewKafkaSubscriber(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	default:
		return nil, fmt.Errorf("unsupported ingest type: %s (supported: memory, nats, redis, kafka)", cfg.Type)
	}
}
