package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// slotEvent is published alongside every slot write so other owners learn
// about the change. Origin identifies the writer; subscribers drop their
// own events, matching storage-event semantics where a tab never sees its
// own writes.
type slotEvent struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// RedisSlot persists the cart under a fixed Redis key and propagates writes
// over a pub/sub channel derived from that key.
type RedisSlot struct {
	rdb    *redis.Client
	key    string
	origin string
	logger *zap.Logger
	sub    *redis.PubSub
}

// NewRedisSlot creates a slot over the given key.
func NewRedisSlot(rdb *redis.Client, key string, logger *zap.Logger) *RedisSlot {
	return &RedisSlot{
		rdb:    rdb,
		key:    key,
		origin: uuid.New().String(),
		logger: logger,
	}
}

func (s *RedisSlot) channel() string {
	return s.key + ":events"
}

// Load reads the current slot value; a key that was never written yields
// nil without error.
func (s *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart slot: %w", err)
	}
	return data, nil
}

// Store replaces the slot value and announces the write.
func (s *RedisSlot) Store(ctx context.Context, data []byte) error {
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store cart slot: %w", err)
	}

	event, err := json.Marshal(slotEvent{Origin: s.origin, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal slot event: %w", err)
	}

	if err := s.rdb.Publish(ctx, s.channel(), event).Err(); err != nil {
		// The write itself landed; a lost notification only delays peers
		// until their next write, so log and carry on.
		s.logger.Warn("Failed to publish cart slot event", zap.Error(err))
	}

	return nil
}

// Watch subscribes to slot writes from other owners.
func (s *RedisSlot) Watch(ctx context.Context) (<-chan []byte, error) {
	s.sub = s.rdb.Subscribe(ctx, s.channel())

	// Force the subscription to be established before returning so no
	// write published after Watch can be missed.
	if _, err := s.sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to cart slot: %w", err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range s.sub.Channel() {
			var event slotEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("Malformed cart slot event", zap.Error(err))
				continue
			}
			if event.Origin == s.origin {
				continue
			}
			select {
			case out <- []byte(event.Data):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close tears down the pub/sub subscription.
func (s *RedisSlot) Close() error {
	if s.sub != nil {
		return s.sub.Close()
	}
	return nil
}
