// Package pubsub fans analysis events out to live subscribers. Publishing
// never blocks: a subscriber whose buffer is full misses the event.
package pubsub

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TopicAnalysis carries one event per completed analysis request
const TopicAnalysis = "analysis"

// DefaultBufferSize is the per-subscription buffer
const DefaultBufferSize = 100

// ErrShutdown is returned by Subscribe after Shutdown
var ErrShutdown = errors.New("pubsub is shut down")

// Event describes a completed analysis
type Event struct {
	Topic      string         `json:"-"`
	Type       string         `json:"type"`
	RequestID  string         `json:"request_id,omitempty"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
	Summary    map[string]any `json:"summary,omitempty"`
	Time       time.Time      `json:"time"`
}

// PubSub provides publish/subscribe functionality for real-time updates
type PubSub struct {
	subscribers map[string]map[*Subscription]bool
	bufferSize  int
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription represents a subscription to one or more topics
type Subscription struct {
	topics    []string
	channel   chan Event
	ps        *PubSub
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once // Ensures channel is only closed once
}

// NewPubSub creates a new PubSub instance. A bufferSize of zero or less
// uses DefaultBufferSize.
func NewPubSub(bufferSize int) *PubSub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &PubSub{
		subscribers: make(map[string]map[*Subscription]bool),
		bufferSize:  bufferSize,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe creates a subscription to the given topics. The subscription
// ends when ctx is cancelled, Unsubscribe is called, or the PubSub shuts
// down; its channel is then closed.
func (ps *PubSub) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return nil, ErrShutdown
	}
	ps.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topics:  topics,
		channel: make(chan Event, ps.bufferSize),
		ps:      ps,
		ctx:     subCtx,
		cancel:  cancel,
	}

	ps.mu.Lock()
	for _, topic := range topics {
		if ps.subscribers[topic] == nil {
			ps.subscribers[topic] = make(map[*Subscription]bool)
		}
		ps.subscribers[topic][sub] = true
	}
	ps.mu.Unlock()

	// Monitor context cancellation
	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-ps.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish sends an event to all subscribers of its topic and reports how
// many received it and how many dropped it.
func (ps *PubSub) Publish(event Event) (delivered, dropped int) {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return 0, 0
	}
	ps.shutdownMu.Unlock()

	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	// Snapshot the subscribers so sends happen outside the lock
	ps.mu.RLock()
	topicSubs := ps.subscribers[event.Topic]
	subs := make([]*Subscription, 0, len(topicSubs))
	for sub := range topicSubs {
		subs = append(subs, sub)
	}
	ps.mu.RUnlock()

	for _, sub := range subs {
		if sub.send(event) {
			delivered++
		} else {
			dropped++
		}
	}
	return delivered, dropped
}

// GetSubscriberCount returns the number of subscribers for a topic
func (ps *PubSub) GetSubscriberCount(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.subscribers[topic])
}

// Shutdown closes all subscriptions and shuts down the PubSub
func (ps *PubSub) Shutdown() {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.isShutdown = true
	ps.shutdownMu.Unlock()

	close(ps.shutdown)

	ps.mu.Lock()
	for topic, subs := range ps.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(ps.subscribers, topic)
	}
	ps.mu.Unlock()
}

// Channel returns the subscription's event channel
func (s *Subscription) Channel() <-chan Event {
	return s.channel
}

// Topics returns the subscribed topics
func (s *Subscription) Topics() []string {
	return s.topics
}

// Unsubscribe removes the subscription from every topic
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.ps.mu.Lock()
	for _, topic := range s.topics {
		if s.ps.subscribers[topic] != nil {
			delete(s.ps.subscribers[topic], s)
			if len(s.ps.subscribers[topic]) == 0 {
				delete(s.ps.subscribers, topic)
			}
		}
	}
	s.close()
	s.ps.mu.Unlock()
}

// send delivers without blocking. It runs under no lock, so a concurrent
// close is caught by the recover.
func (s *Subscription) send(event Event) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case s.channel <- event:
		return true
	default:
		return false
	}
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
