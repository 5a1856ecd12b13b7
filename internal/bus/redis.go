package bus

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

// RedisConfig holds connection settings for the Redis pub/sub transport
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Buffer   int // size of the delivery channel
}

// Redis is a Subscriber and Publisher backed by Redis pub/sub
type Redis struct {
	client *redis.Client
	addr   string
	buffer int
	log    logr.Logger
}

// NewRedis creates a Redis transport. No connection is made until Subscribe
// or Publish is called.
func NewRedis(cfg RedisConfig, log logr.Logger) *Redis {
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultRedisAddr
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = constants.DefaultBusBuffer
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		client: client,
		addr:   cfg.Addr,
		buffer: cfg.Buffer,
		log:    log.WithValues("addr", cfg.Addr),
	}
}

// Ping checks that the server is reachable
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping %s: %v", domain.ErrTransport, r.addr, err)
	}
	return nil
}

// Subscribe subscribes to channels and forwards their messages until ctx is
// cancelled or the connection closes
func (r *Redis) Subscribe(ctx context.Context, channels ...string) (<-chan Message, error) {
	if err := r.Ping(ctx); err != nil {
		return nil, err
	}

	ps := r.client.Subscribe(ctx, channels...)
	// Wait for the server to confirm the subscription
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%w: subscribe %v: %v", domain.ErrTransport, channels, err)
	}
	r.log.Info("subscribed", "channels", channels)

	out := make(chan Message, r.buffer)
	go r.forward(ctx, ps, out)

	return out, nil
}

// forward copies pub/sub messages to out. It exits when the context is
// cancelled or the pub/sub channel is closed.
func (r *Redis) forward(ctx context.Context, ps *redis.PubSub, out chan<- Message) {
	defer close(out)
	defer ps.Close()

	in := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				r.log.Info("subscription closed")
				return
			}
			select {
			case out <- Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Publish sends payload to channel
func (r *Redis) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: publish %s: %v", domain.ErrTransport, channel, err)
	}
	return nil
}

// Close closes the underlying client and any open subscription
func (r *Redis) Close() error {
	return r.client.Close()
}
