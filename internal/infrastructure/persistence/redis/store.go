// Package redis implements the record store on top of Redis.
// Snapshots are stored as JSON strings under their record keys, without TTL:
// the record store is primary storage here, not a cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store implements recordstore.Store backed by Redis.
type Store struct {
	client *redis.Client
	config Config
}

// NewStore creates a Store and verifies the connection.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	return &Store{client: client, config: cfg}, nil
}

// Client returns the underlying Redis client for advanced operations.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get decodes the snapshot under key into dest.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return recordstore.ErrNotFound
		}
		return fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: key %s: %v", recordstore.ErrSerialization, key, err)
	}

	return nil
}

// Set encodes value as JSON and persists it under key.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %s: %v", recordstore.ErrSerialization, key, err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	return nil
}

// Remove deletes the snapshot under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	return nil
}
