package stream

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// unreachableClient returns a client whose every command fails fast, so
// tests can observe what the consumer does around a failed call.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestProcessLeavesEventPendingOnShutdown(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	core, logs := observer.New(zap.DebugLevel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := func(ctx context.Context, payload []byte) error {
		return ctx.Err()
	}
	c := NewConsumer(client, "test-group", "test-stream", 1, handler, zap.New(core))

	c.process(ctx, "test-group-0", redis.XMessage{
		ID:     "1-0",
		Values: map[string]interface{}{"payload": "{}"},
	})

	if got := logs.FilterMessage("handler interrupted by shutdown, leaving event pending").Len(); got != 1 {
		t.Errorf("got %d shutdown warnings, want 1", got)
	}
	// The event must stay pending for redelivery: no ack may be attempted.
	if got := logs.FilterMessage("failed to ack event").Len(); got != 0 {
		t.Errorf("event was acked during shutdown, got %d ack attempts", got)
	}
}

func TestProcessAcksAndDropsOnHandlerError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	core, logs := observer.New(zap.DebugLevel)

	handler := func(ctx context.Context, payload []byte) error {
		return context.DeadlineExceeded
	}
	c := NewConsumer(client, "test-group", "test-stream", 1, handler, zap.New(core))

	c.process(context.Background(), "test-group-0", redis.XMessage{
		ID:     "1-0",
		Values: map[string]interface{}{"payload": "{}"},
	})

	if got := logs.FilterMessage("failed to process event, dropping").Len(); got != 1 {
		t.Errorf("got %d drop logs, want 1", got)
	}
	// Ack was attempted; against the unreachable client it fails and logs.
	if got := logs.FilterMessage("failed to ack event").Len(); got != 1 {
		t.Errorf("got %d ack attempts, want 1", got)
	}
}

func TestReclaimLoopRunsPeriodically(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	core, logs := observer.New(zap.DebugLevel)

	c := NewConsumer(client, "test-group", "test-stream", 1, nil, zap.New(core))
	c.reclaimEvery = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	c.reclaimLoop(ctx)

	if got := logs.FilterMessage("failed to reclaim pending events").Len(); got < 2 {
		t.Errorf("got %d reclaim passes, want at least 2", got)
	}
}
