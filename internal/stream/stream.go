// Package stream is the event channel between scraping and storage: Redis
// Streams carrying raw and processed job events. Delivery is at-least-once;
// the upsert engine's idempotence is what makes redelivery safe.
package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// StreamRawJobs carries events straight off a scraper.
	StreamRawJobs = "jobs:raw"
	// StreamProcessedJobs carries events normalized by an external
	// enrichment step.
	StreamProcessedJobs = "jobs:processed"
)

// NewClient connects to Redis and verifies connectivity.
func NewClient(addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("successfully connected to Redis")

	return client, nil
}
