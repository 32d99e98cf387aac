package ingest

import "github.com/soltixdb/gorillastore/internal/config"

func configIngest(queueType string, brokers []string) config.IngestConfig {
	return config.IngestConfig{
		Enabled:       true,
		Type:          queueType,
		Subject:       "samples",
		RedisGroup:    "test-group",
		RedisConsumer: "test-consumer",
		KafkaBrokers:  brokers,
		KafkaGroupID:  "test",
	}
}
