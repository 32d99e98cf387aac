package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/soltixdb/gorillastore/internal/logging"
)

// KafkaConfig holds Kafka subscriber configuration
type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// KafkaSubscriber implements Subscriber using kafka-go consumer groups
type KafkaSubscriber struct {
	cfg     KafkaConfig
	mu      sync.Mutex
	readers map[string]*kafka.Reader
}

// NewKafkaSubscriber creates a Kafka subscriber for the given brokers
func NewKafkaSubscriber(cfg KafkaConfig) (*KafkaSubscriber, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	return &KafkaSubscriber{
		cfg:     cfg,
		readers: make(map[string]*kafka.Reader),
	}, nil
}

// Subscribe starts a consumer-group read loop on the topic named subject
func (s *KafkaSubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.readers[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  s.cfg.Brokers,
		GroupID:  s.cfg.GroupID,
		Topic:    subject,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	s.readers[subject] = reader

	go func() {
		log := logging.Global().With("component", "ingest.kafka", "topic", subject)
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				// io.EOF means the reader was closed by Close.
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					return
				}
				log.Warn("Kafka read failed", "error", err)
				continue
			}
			if err := handler(ctx, msg.Value); err != nil {
				log.Debug("Handler rejected message",
					"partition", msg.Partition, "offset", msg.Offset, "error", err)
			}
		}
	}()

	return nil
}

// Close closes all readers
func (s *KafkaSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for subject, reader := range s.readers {
		if err := reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.readers, subject)
	}
	return firstErr
}
