package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handler processes one event payload. A returned error means the event
// could not be applied; the consumer logs it and drops the event. There is
// no retry or dead-letter queue: one bad event must never block the stream.
type Handler func(ctx context.Context, payload []byte) error

// reclaimInterval is how often a consumer sweeps the group's pending
// entries for events orphaned by a dead worker.
const reclaimInterval = time.Minute

// Consumer reads one stream through a consumer group with a pool of worker
// goroutines. Each worker runs one event to completion (commit or logged
// drop) before taking the next; acknowledgement happens after the attempt,
// so a crash mid-event leads to redelivery, not loss.
type Consumer struct {
	client       *redis.Client
	group        string
	stream       string
	workers      int
	handler      Handler
	reclaimEvery time.Duration
	logger       *zap.Logger
}

func NewConsumer(client *redis.Client, group, stream string, workers int, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:       client,
		group:        group,
		stream:       stream,
		workers:      workers,
		handler:      handler,
		reclaimEvery: reclaimInterval,
		logger:       logger.With(zap.String("stream", stream)),
	}
}

// Start creates the consumer group if needed, reclaims events left pending
// by dead consumers, then blocks reading until the context is cancelled.
// The reclaim pass repeats on an interval so entries orphaned while the
// process runs are picked up without a restart.
func (c *Consumer) Start(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}

	c.reclaimPending(ctx)

	c.logger.Info("consumer started",
		zap.String("group", c.group),
		zap.Int("workers", c.workers),
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.reclaimLoop(ctx)
	}()
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			c.readLoop(ctx, fmt.Sprintf("%s-%d", c.group, worker))
		}(i)
	}

	wg.Wait()
	c.logger.Info("consumer stopped")
	return nil
}

func (c *Consumer) readLoop(ctx context.Context, consumerName string) {
	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("failed to read from stream", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, consumerName, msg)
			}
		}
	}
}

// process runs one event to completion. A handler error means the event is
// dropped after the attempt, observable only in the logs, unless the error
// was caused by shutdown: then the event stays pending so the next consumer
// redelivers it.
func (c *Consumer) process(ctx context.Context, consumerName string, msg redis.XMessage) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error("event without payload, dropping",
			zap.String("message_id", msg.ID),
		)
		c.ack(ctx, msg.ID)
		return
	}

	if err := c.handler(ctx, []byte(payload)); err != nil {
		if ctx.Err() != nil {
			c.logger.Warn("handler interrupted by shutdown, leaving event pending",
				zap.String("message_id", msg.ID),
				zap.String("consumer", consumerName),
			)
			return
		}
		c.logger.Error("failed to process event, dropping",
			zap.String("message_id", msg.ID),
			zap.String("consumer", consumerName),
			zap.Error(err),
		)
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, messageID string) {
	if err := c.client.XAck(ctx, c.stream, c.group, messageID).Err(); err != nil {
		c.logger.Error("failed to ack event",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}

// reclaimLoop repeats the pending sweep until the context is cancelled.
func (c *Consumer) reclaimLoop(ctx context.Context) {
	ticker := time.NewTicker(c.reclaimEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.reclaimPending(ctx)
		}
	}
}

// reclaimPending takes over events that were delivered to a consumer that
// died before acknowledging them. This is the redelivery half of the
// at-least-once contract.
func (c *Consumer) reclaimPending(ctx context.Context) {
	consumerName := fmt.Sprintf("%s-0", c.group)
	start := "0-0"

	for {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.group,
			Consumer: consumerName,
			MinIdle:  time.Minute,
			Start:    start,
			Count:    100,
		}).Result()

		if err != nil {
			c.logger.Error("failed to reclaim pending events", zap.Error(err))
			return
		}

		for _, msg := range msgs {
			c.logger.Info("reprocessing pending event", zap.String("message_id", msg.ID))
			c.process(ctx, consumerName, msg)
		}

		if next == "0-0" || len(msgs) == 0 {
			return
		}
		start = next
	}
}
