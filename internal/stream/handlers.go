package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"jobcompass/internal/catalog"
	"jobcompass/internal/events"
	"jobcompass/internal/models"

	"go.uber.org/zap"
)

// RawJobHandler routes raw events into the upsert engine.
func RawJobHandler(svc *catalog.Service, logger *zap.Logger) Handler {
	return func(ctx context.Context, payload []byte) error {
		var event events.RawJobEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("%w: decode raw event: %v", models.ErrMalformedEvent, err)
		}

		job, err := svc.UpsertRaw(ctx, event)
		if err != nil {
			return fmt.Errorf("upsert raw event %s: %w", event.URL, err)
		}

		logger.Info("stored raw job event",
			zap.Int64("job_id", job.ID),
			zap.String("url", job.URL),
			zap.String("source", job.Source.String()),
		)
		return nil
	}
}

// ProcessedJobHandler routes processed events into the same engine.
func ProcessedJobHandler(svc *catalog.Service, logger *zap.Logger) Handler {
	return func(ctx context.Context, payload []byte) error {
		var event events.ProcessedJobEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("%w: decode processed event: %v", models.ErrMalformedEvent, err)
		}

		job, err := svc.UpsertProcessed(ctx, event)
		if err != nil {
			return fmt.Errorf("upsert processed event %s: %w", event.URL, err)
		}

		logger.Info("stored processed job event",
			zap.Int64("job_id", job.ID),
			zap.String("url", job.URL),
		)
		return nil
	}
}
