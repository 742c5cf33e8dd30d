// Package redis publishes daemon snapshots to Redis: the latest snapshot
// per host under a key with a TTL, a set of known hosts, and a pub/sub
// notification on every update.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/mfulz/boincgeist/internal/watch"
)

// ErrNotFound is returned when no live snapshot exists for a host.
var ErrNotFound = errors.New("snapshot not found")

// Publisher implements watch.Sink.
type Publisher struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Publisher)

// WithTTL sets the expiration of snapshot keys. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) { p.ttl = ttl }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) { p.prefix = prefix }
}

// New connects to the Redis server at address.
func New(address, password string, db int, opts ...Option) *Publisher {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		prefix: "boincgeist:",
		ttl:    5 * time.Minute,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Publisher) key(host string) string { return p.prefix + "snapshot:" + host }

func (p *Publisher) hostsKey() string { return p.prefix + "hosts" }

// Channel is the pub/sub channel that receives the host name on every update.
func (p *Publisher) Channel() string { return p.prefix + "updates" }

// Publish stores s as the latest snapshot of its host.
func (p *Publisher) Publish(ctx context.Context, s watch.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.key(s.Host), data, p.ttl)
	pipe.SAdd(ctx, p.hostsKey(), s.Host)
	pipe.Publish(ctx, p.Channel(), s.Host)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Latest returns the raw JSON of the newest snapshot of host.
func (p *Publisher) Latest(ctx context.Context, host string) (json.RawMessage, error) {
	val, err := p.client.Get(ctx, p.key(host)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Hosts lists hosts that still have a live snapshot, pruning expired ones.
func (p *Publisher) Hosts(ctx context.Context) ([]string, error) {
	hosts, err := p.client.SMembers(ctx, p.hostsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	live := hosts[:0]
	for _, h := range hosts {
		n, err := p.client.Exists(ctx, p.key(h)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check snapshot: %w", err)
		}
		if n == 0 {
			p.client.SRem(ctx, p.hostsKey(), h)
			continue
		}
		live = append(live, h)
	}
	return live, nil
}

// Close closes the redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
