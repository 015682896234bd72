// Package catalog holds the core ingestion logic: the job upsert engine,
// entity resolution for companies and skills, the application tracker, and
// the read-side queries. Every inbound event, raw or processed, converges
// on the same idempotent upsert keyed by the posting URL.
package catalog

import (
	"time"

	"go.uber.org/zap"
)

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func New(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}
