package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

// memorySub is one in-process subscriber
type memorySub struct {
	channels map[string]bool
	ch       chan Message
}

// Memory is an in-process Subscriber and Publisher. Publishing never blocks:
// a subscriber whose buffer is full misses the message.
type Memory struct {
	mu     sync.RWMutex
	subs   map[int]*memorySub
	nextID int
	buffer int
	closed bool
	log    logr.Logger
}

// NewMemory creates an in-process bus
func NewMemory(buffer int, log logr.Logger) *Memory {
	if buffer <= 0 {
		buffer = constants.DefaultBusBuffer
	}
	return &Memory{
		subs:   make(map[int]*memorySub),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a subscriber for channels. The subscription ends when
// ctx is cancelled or the bus is closed.
func (m *Memory) Subscribe(ctx context.Context, channels ...string) (<-chan Message, error) {
	sub := &memorySub{
		channels: make(map[string]bool, len(channels)),
		ch:       make(chan Message, m.buffer),
	}
	for _, c := range channels {
		sub.channels[c] = true
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: memory bus closed", domain.ErrTransport)
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = sub
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.unsubscribe(id)
	}()

	return sub.ch, nil
}

func (m *Memory) unsubscribe(id int) {
	m.mu.Lock()
	sub, ok := m.subs[id]
	if ok {
		delete(m.subs, id)
	}
	m.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish delivers payload to every subscriber of channel
func (m *Memory) Publish(_ context.Context, channel string, payload []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("%w: memory bus closed", domain.ErrTransport)
	}

	for _, sub := range m.subs {
		if !sub.channels[channel] {
			continue
		}
		select {
		case sub.ch <- Message{Channel: channel, Payload: payload}:
		default:
			m.log.V(1).Info("dropped message for slow subscriber", "channel", channel)
		}
	}
	return nil
}

// Subscribers returns the number of active subscriptions
func (m *Memory) Subscribers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Close ends every subscription
func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	subs := m.subs
	m.subs = make(map[int]*memorySub)
	m.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
	}
	return nil
}
