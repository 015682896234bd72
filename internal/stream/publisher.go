package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"jobcompass/internal/events"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher appends job events to the streams, keyed by source name.
type Publisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewPublisher(client *redis.Client, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

func (p *Publisher) PublishRaw(ctx context.Context, event events.RawJobEvent) error {
	return p.publish(ctx, StreamRawJobs, event.Source.String(), event)
}

func (p *Publisher) PublishProcessed(ctx context.Context, event events.ProcessedJobEvent) error {
	return p.publish(ctx, StreamProcessedJobs, event.Source.String(), event)
}

func (p *Publisher) publish(ctx context.Context, stream, source string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"source":  source,
			"payload": payload,
		},
	}).Err()

	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("stream", stream),
			zap.String("source", source),
			zap.Error(err),
		)
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("published event",
		zap.String("stream", stream),
		zap.String("source", source),
	)

	return nil
}
