package logs

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

var subscriptionIDCounter uint64

// Subscription receives admitted records matching its own pattern
type Subscription struct {
	id     string
	ch     chan domain.LogRecord
	filter *Filter
	closed atomic.Bool
	log    logr.Logger
}

// newSubscription creates a new subscription. The pattern is compiled
// strictly: a live stream with a broken pattern is rejected, not widened.
func newSubscription(pattern string, bufferSize int, log logr.Logger) (*Subscription, error) {
	f, err := CompileFilter(pattern)
	if err != nil {
		return nil, err
	}

	id := atomic.AddUint64(&subscriptionIDCounter, 1)

	return &Subscription{
		id:     "sub-" + strconv.FormatUint(id, 10),
		ch:     make(chan domain.LogRecord, bufferSize),
		filter: f,
		log:    log,
	}, nil
}

// ID returns the subscription ID
func (s *Subscription) ID() string {
	return s.id
}

// Channel returns the channel for receiving records
func (s *Subscription) Channel() <-chan domain.LogRecord {
	return s.ch
}

// Send attempts to deliver a record to the subscriber.
// Returns false if the channel is full or closed.
func (s *Subscription) Send(record domain.LogRecord) bool {
	if s.closed.Load() {
		return false
	}

	if !s.filter.Matches(record) {
		return true // filtered out, but not a failure
	}

	select {
	case s.ch <- record:
		return true
	default:
		s.log.V(1).Info("dropped record for slow subscriber", "subscription", s.id, "service", record.Service)
		return false
	}
}

// Close closes the subscription
func (s *Subscription) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.ch)
	}
}

// SubscriptionManager fans admitted records out to live stream subscribers
type SubscriptionManager struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	bufferSize    int
	log           logr.Logger
}

// NewSubscriptionManager creates a new subscription manager
func NewSubscriptionManager(bufferSize int, log logr.Logger) *SubscriptionManager {
	if bufferSize <= 0 {
		bufferSize = constants.DefaultSubscriptionBuffer
	}
	return &SubscriptionManager{
		subscriptions: make(map[string]*Subscription),
		bufferSize:    bufferSize,
		log:           log,
	}
}

// Subscribe creates a new subscription for records matching pattern
func (m *SubscriptionManager) Subscribe(pattern string) (string, <-chan domain.LogRecord, error) {
	sub, err := newSubscription(pattern, m.bufferSize, m.log)
	if err != nil {
		return "", nil, err
	}

	m.mu.Lock()
	m.subscriptions[sub.id] = sub
	m.mu.Unlock()

	return sub.id, sub.ch, nil
}

// Unsubscribe removes a subscription
func (m *SubscriptionManager) Unsubscribe(id string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[id]
	if ok {
		delete(m.subscriptions, id)
	}
	m.mu.Unlock()

	if ok {
		sub.Close()
	}
}

// Broadcast sends a record to all subscribers without blocking
func (m *SubscriptionManager) Broadcast(record domain.LogRecord) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscriptions {
		sub.Send(record)
	}
}

// Count returns the number of active subscriptions
func (m *SubscriptionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close closes all subscriptions
func (m *SubscriptionManager) Close() {
	m.mu.Lock()
	subs := make([]*Subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.subscriptions = make(map[string]*Subscription)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
