package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "rdns:ptr:"

// NewRedis connects to Redis and verifies the connection
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// PTRCache stores resolved hostnames in Redis. Cache errors are logged and
// treated as misses so lookups never fail because of the cache.
type PTRCache struct {
	client *redis.Client
	logger *logrus.Entry
}

// NewPTRCache creates a PTRCache on client
func NewPTRCache(client *redis.Client, logger *logrus.Entry) *PTRCache {
	return &PTRCache{
		client: client,
		logger: logger.WithField("component", "ptr-cache"),
	}
}

// Key returns the Redis key for ip
func Key(ip string) string {
	return keyPrefix + ip
}

// Get returns the cached hostname for ip
func (c *PTRCache) Get(ctx context.Context, ip string) (string, bool) {
	host, err := c.client.Get(ctx, Key(ip)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithField("ip", ip).WithError(err).Warn("cache read failed")
		}
		return "", false
	}
	return host, host != ""
}

// Set caches host for ip
func (c *PTRCache) Set(ctx context.Context, ip, host string, ttl time.Duration) {
	if err := c.client.Set(ctx, Key(ip), host, ttl).Err(); err != nil {
		c.logger.WithField("ip", ip).WithError(err).Warn("cache write failed")
	}
}
