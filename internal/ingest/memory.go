package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/soltixdb/gorillastore/internal/logging"
)

// memoryBroker fans messages out to in-process subscribers. It backs the
// memory subscriber used in tests and single-binary deployments.
type memoryBroker struct {
	mu   sync.RWMutex
	subs map[string][]chan []byte
}

var (
	broker     *memoryBroker
	brokerOnce sync.Once
)

func getBroker() *memoryBroker {
	brokerOnce.Do(func() {
		broker = &memoryBroker{subs: make(map[string][]chan []byte)}
	})
	return broker
}

// PublishToMemory delivers a message to all memory subscribers of subject.
func PublishToMemory(subject string, data []byte) {
	b := getBroker()
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[subject] {
		select {
		case ch <- data:
		default:
			logging.Global().Warn("Memory subscriber channel full, dropping message",
				"subject", subject)
		}
	}
}

// MemorySubscriber implements Subscriber over the in-process broker
type MemorySubscriber struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewMemorySubscriber creates a new in-memory subscriber
func NewMemorySubscriber() *MemorySubscriber {
	return &MemorySubscriber{cancels: make(map[string]context.CancelFunc)}
}

// Subscribe starts consuming subject from the in-process broker
func (s *MemorySubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cancels[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ch := make(chan []byte, 1000)
	b := getBroker()
	b.mu.Lock()
	b.subs[subject] = append(b.subs[subject], ch)
	b.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	s.cancels[subject] = cancel

	go func() {
		for {
			select {
			case <-subCtx.Done():
				return
			case data := <-ch:
				if err := handler(subCtx, data); err != nil {
					logging.Global().Debug("Memory subscriber handler error",
						"subject", subject, "error", err)
				}
			}
		}
	}()

	return nil
}

// Close cancels all subscriptions
func (s *MemorySubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for subject, cancel := range s.cancels {
		cancel()
		delete(s.cancels, subject)
	}
	return nil
}
