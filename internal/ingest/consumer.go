package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/soltixdb/gorillastore/internal/logging"
	"github.com/soltixdb/gorillastore/internal/models"
	"github.com/soltixdb/gorillastore/internal/storage"
)

// Consumer decodes sample messages and applies them to the store. Rejected
// samples (out of order, tombstoned) are counted, not logged; they are a
// normal part of the write contract.
type Consumer struct {
	store  *storage.Store
	logger *logging.Logger

	accepted atomic.Uint64
	rejected atomic.Uint64
	invalid  atomic.Uint64
}

// NewConsumer creates a consumer writing into store
func NewConsumer(store *storage.Store, logger *logging.Logger) *Consumer {
	return &Consumer{store: store, logger: logger}
}

// HandleMessage is the MessageHandler for sample subjects.
func (c *Consumer) HandleMessage(_ context.Context, data []byte) error {
	var msg models.SampleMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.invalid.Add(1)
		return fmt.Errorf("malformed sample message: %w", err)
	}
	if msg.Key == "" {
		c.invalid.Add(1)
		return fmt.Errorf("sample message without key")
	}

	err := c.store.Insert(msg.Key, msg.Timestamp, msg.Value)
	switch {
	case err == nil:
		c.accepted.Add(1)
		return nil
	case errors.Is(err, storage.ErrOutOfOrder), errors.Is(err, storage.ErrTombstoned):
		c.rejected.Add(1)
		return err
	default:
		return err
	}
}

// Start subscribes the consumer to subject on sub.
func (c *Consumer) Start(ctx context.Context, sub Subscriber, subject string) error {
	if err := sub.Subscribe(ctx, subject, c.HandleMessage); err != nil {
		return fmt.Errorf("failed to start sample consumer: %w", err)
	}
	c.logger.Info("Sample consumer started", "subject", subject)
	return nil
}

// Stats returns the accepted/rejected/invalid message counts.
func (c *Consumer) Stats() (accepted, rejected, invalid uint64) {
	return c.accepted.Load(), c.rejected.Load(), c.invalid.Load()
}
