// Package statuscache caches each exchange session's current
// connection status in Redis, adapted from the teacher's
// services/processor/internal/storage package. Unlike the teacher's
// storage layer, which persists ticker/kline/trade/depth payloads,
// this cache never holds book state: only the small connectivity
// fact a dashboard or health check would want to read without talking
// to the gRPC service directly.
package statuscache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookagg/internal/book"
)

const keyPrefix = "bookagg:status:"

// Status is the connection state recorded for one exchange.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusReconnecting Status = "reconnecting"
	StatusDisconnected Status = "disconnected"
)

// Cache wraps a Redis client scoped to session status entries.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at addr and verifies the connection.
func New(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// SetStatus records an exchange's current connection status with a
// TTL: a stale entry should read as unknown rather than linger as
// "connected" forever if the process that would clear it crashes.
func (c *Cache) SetStatus(ctx context.Context, exchange book.ExchangeCode, status Status) error {
	key := keyPrefix + string(exchange)
	return c.client.Set(ctx, key, string(status), 5*time.Minute).Err()
}

// GetStatus reads back an exchange's last recorded status.
func (c *Cache) GetStatus(ctx context.Context, exchange book.ExchangeCode) (Status, error) {
	key := keyPrefix + string(exchange)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get status for %s: %w", exchange, err)
	}
	return Status(val), nil
}

// Close closes the underlying Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
