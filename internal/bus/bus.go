package bus

import "context"

// Message is one payload delivered on a named channel
type Message struct {
	Channel string
	Payload []byte
}

// Subscriber delivers messages published on a set of channels.
//
// Subscribe fails with domain.ErrTransport when the subscription cannot be
// established. The returned channel is closed when ctx is cancelled, the
// subscriber is closed, or the connection is lost.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan Message, error)
	Close() error
}

// Publisher sends payloads to a named channel
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
