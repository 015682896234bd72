// Package scheduler wires the cron trigger that periodically kicks off a
// scrape cycle for each configured skill.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"jobcompass/internal/config"
	"jobcompass/internal/events"
	"jobcompass/internal/scraper"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// skillPause spaces the per-skill scrape runs so a cycle over many skills
// does not hammer the sources back to back.
const skillPause = 10 * time.Second

type Scheduler struct {
	cron         *cron.Cron
	orchestrator *scraper.Orchestrator
	cfg          *config.Config
	logger       *zap.Logger
}

func New(orchestrator *scraper.Orchestrator, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		orchestrator: orchestrator,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the scrape job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.ScrapeCron, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("register cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scrape scheduler started",
		zap.String("cron", s.cfg.ScrapeCron),
		zap.Strings("skills", s.cfg.ScrapeSkills),
	)

	return nil
}

// Stop shuts the scheduler down, waiting for a running cycle to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scrape scheduler stopped")
}

// runCycle triggers one scrape per configured skill.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.logger.Info("starting scheduled scrape cycle")

	for i, skill := range s.cfg.ScrapeSkills {
		if ctx.Err() != nil {
			s.logger.Info("scheduled scrape cycle cancelled")
			return
		}

		params := events.ScrapeParameters{
			MaxJobAgeDays: s.cfg.MaxJobAgeDays,
			MaxResults:    s.cfg.MaxJobsPerSource,
			Skill:         skill,
			Location:      s.cfg.DefaultLocation,
			AuthCookie:    s.cfg.LinkedInAuthCookie,
		}

		s.orchestrator.ScrapeAll(ctx, params)

		if i < len(s.cfg.ScrapeSkills)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(skillPause):
			}
		}
	}

	s.logger.Info("scheduled scrape cycle completed")
}
