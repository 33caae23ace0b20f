package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/gatekeeper"
)

const (
	defaultRedisPrefix = "gatekeeper:state:"
	defaultTTL         = 24 * time.Hour
)

// A RedisCacher connects to a Redis backend
// for the purposes of keeping State.
//
// Saved State expires after a TTL that resets on every Save.
type RedisCacher struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacher constructs a RedisCacher with the options passed in.
// A ttl of zero or less uses a day.
func NewRedisCacher(opts *redis.Options, ttl time.Duration) *RedisCacher {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisCacher{client: redis.NewClient(opts), prefix: defaultRedisPrefix, ttl: ttl}
}

// Ping asserts the Redis backend can be reached.
func (c *RedisCacher) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping failed: %s", gatekeeper.ErrBadConfig, err)
	}

	return nil
}

// Close closes the connection to the Redis backend.
func (c *RedisCacher) Close() error { return c.client.Close() }

// Load retrieves the State paired to sid from the connected Redis backend.
func (c *RedisCacher) Load(ctx context.Context, sid string) (State, error) {
	b, err := c.client.Get(ctx, c.prefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, fmt.Errorf("%w: no state for session", gatekeeper.ErrNotExist)
	}

	if err != nil {
		return State{}, fmt.Errorf("%w: %s", gatekeeper.ErrUnexpected, err)
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("%w: decoding state: %s", gatekeeper.ErrUnexpected, err)
	}

	return st, nil
}

// Save pairs st to sid in the Redis backend.
func (c *RedisCacher) Save(ctx context.Context, sid string, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: encoding state: %s", gatekeeper.ErrNotValid, err)
	}

	if err := c.client.Set(ctx, c.prefix+sid, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %s", gatekeeper.ErrUnexpected, err)
	}

	return nil
}

// Delete removes the State paired to sid from the Redis backend.
func (c *RedisCacher) Delete(ctx context.Context, sid string) error {
	n, err := c.client.Del(ctx, c.prefix+sid).Result()
	if err != nil {
		return fmt.Errorf("%w: %s", gatekeeper.ErrUnexpected, err)
	}

	if n == 0 {
		return fmt.Errorf("%w: no state for session", gatekeeper.ErrNotExist)
	}

	return nil
}
