package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// StorageConfig represents the series store configuration
type StorageConfig struct {
	BlockSeconds uint64 `mapstructure:"block_seconds"` // Block window duration in seconds
	Shards       int    `mapstructure:"shards"`        // Registry shard count for concurrent access
}

// IngestConfig represents the message-queue ingest configuration
type IngestConfig struct {
	Enabled bool   `mapstructure:"enabled"` // Consume samples from a queue
	Type    string `mapstructure:"type"`    // Queue type: memory (default), nats, redis, kafka
	URL     string `mapstructure:"url"`     // Broker URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Subject string `mapstructure:"subject"` // Subject/topic/stream carrying sample messages

	// Redis-specific options
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates storage configuration
func (c *StorageConfig) Validate() error {
	if c.BlockSeconds == 0 {
		return fmt.Errorf("block_seconds must be positive")
	}
	if c.Shards < 1 {
		return fmt.Errorf("shards must be at least 1")
	}
	return nil
}

// Validate validates ingest configuration
func (c *IngestConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Type {
	case "", "memory", "nats", "redis", "kafka":
	default:
		return fmt.Errorf("unsupported ingest type: %s (supported: memory, nats, redis, kafka)", c.Type)
	}
	if c.Subject == "" {
		return fmt.Errorf("ingest.subject is required when ingest is enabled")
	}
	if c.Type == "kafka" && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("ingest.kafka_brokers is required for kafka ingest")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}
