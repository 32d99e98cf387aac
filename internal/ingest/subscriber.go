// Package ingest consumes sample messages from a message queue into the
// series store. Messages are JSON-encoded models.SampleMessage values, one
// sample per message.
package ingest

import "context"

// MessageHandler processes one raw message from the queue.
type MessageHandler func(ctx context.Context, data []byte) error

// Subscriber defines the interface for message subscription
type Subscriber interface {
	// Subscribe starts consuming the subject/topic with the given handler.
	// Consumption runs in the background until ctx is cancelled or the
	// subscriber is closed.
	Subscribe(ctx context.Context, subject string, handler MessageHandler) error

	// Close closes the subscriber and releases resources
	Close() error
}
