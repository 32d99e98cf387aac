package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSSubscriber implements Subscriber using core NATS
type NATSSubscriber struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NewNATSSubscriber connects to the NATS server at url
func NewNATSSubscriber(url string) (*NATSSubscriber, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSSubscriber{
		conn: conn,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Subscribe starts consuming subject. The subscription is dropped when ctx
// is cancelled.
func (s *NATSSubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		_ = handler(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}
	s.subs[subject] = sub

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if cur, ok := s.subs[subject]; ok && cur == sub {
			_ = sub.Unsubscribe()
			delete(s.subs, subject)
		}
		s.mu.Unlock()
	}()

	return nil
}

// Close drops all subscriptions and the connection
func (s *NATSSubscriber) Close() error {
	s.mu.Lock()
	for subject, sub := range s.subs {
		_ = sub.Unsubscribe()
		delete(s.subs, subject)
	}
	s.mu.Unlock()
	s.conn.Close()
	return nil
}
