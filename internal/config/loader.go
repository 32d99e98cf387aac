package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gorillastore")
	}

	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("GORILLASTORE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 5555)

	// Storage defaults: two-hour blocks, 16 registry shards
	v.SetDefault("storage.block_seconds", 7200)
	v.SetDefault("storage.shards", 16)

	// Ingest defaults
	v.SetDefault("ingest.enabled", false)
	v.SetDefault("ingest.type", "memory")
	v.SetDefault("ingest.url", "nats://localhost:4222")
	v.SetDefault("ingest.subject", "samples")
	v.SetDefault("ingest.redis_group", "gorillastore-group")
	v.SetDefault("ingest.redis_consumer", "gorillastore-consumer")
	v.SetDefault("ingest.kafka_group_id", "gorillastore")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// parseConfig unmarshals and validates the configuration
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
