// Package redis holds the dedup cache in front of the raw stream: URLs
// scraped recently are not republished. The upsert downstream is idempotent
// either way, the cache just keeps repeat scrapes off the stream.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// seenURLTTL is how long a scraped URL suppresses republication. Shorter
// than the scrape cadence would make the cache useless; much longer would
// delay legitimate updates to a posting.
const seenURLTTL = 12 * time.Hour

type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

func New(addr, password string, db int, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("successfully connected to Redis")

	return &Cache{
		client: client,
		logger: logger,
	}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func seenKey(url string) string {
	return "seen:url:" + url
}

// MarkSeen records a URL and reports whether it was new. A URL already in
// the cache was published within the TTL window.
func (c *Cache) MarkSeen(ctx context.Context, url string) (bool, error) {
	fresh, err := c.client.SetNX(ctx, seenKey(url), 1, seenURLTTL).Result()
	if err != nil {
		c.logger.Error("failed to mark url seen",
			zap.String("url", url),
			zap.Error(err),
		)
		return false, fmt.Errorf("mark seen: %w", err)
	}
	return fresh, nil
}

// Forget drops a URL from the cache so the next scrape republishes it.
func (c *Cache) Forget(ctx context.Context, url string) error {
	if err := c.client.Del(ctx, seenKey(url)).Err(); err != nil {
		return fmt.Errorf("forget url: %w", err)
	}
	return nil
}
