package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"jobcompass/internal/api"
	"jobcompass/internal/catalog"
	"jobcompass/internal/config"
	"jobcompass/internal/filter"
	"jobcompass/internal/logger"
	"jobcompass/internal/scheduler"
	"jobcompass/internal/scraper"
	"jobcompass/internal/storage/postgres"
	"jobcompass/internal/storage/redis"
	"jobcompass/internal/stream"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting jobcompass",
		zap.String("log_level", cfg.LogLevel),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("scrape_cron", cfg.ScrapeCron),
	)

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	log.Info("connecting to Redis...")
	redisClient, err := stream.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	svc := catalog.New(store, log)
	publisher := stream.NewPublisher(redisClient, log)

	languageFilter := filter.NewLanguageFilter(log)

	var seen scraper.SeenCache
	if cfg.DedupEnabled {
		cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			log.Fatal("failed to connect dedup cache", zap.Error(err))
		}
		defer cache.Close()
		seen = cache
	}

	registry := scraper.NewRegistry(
		scraper.NewLinkedInScraper(cfg.LinkedInAuthCookie, cfg.LinkedInEnabled, log),
		scraper.NewHeadHunterScraper(cfg.HeadHunterEnabled, log),
	)
	orchestrator := scraper.NewOrchestrator(registry, publisher, languageFilter, seen, cfg.SourcePause, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	rawConsumer := stream.NewConsumer(
		redisClient,
		cfg.ConsumerGroup,
		stream.StreamRawJobs,
		cfg.ConsumerWorkers,
		stream.RawJobHandler(svc, log),
		log,
	)
	processedConsumer := stream.NewConsumer(
		redisClient,
		cfg.ConsumerGroup,
		stream.StreamProcessedJobs,
		cfg.ConsumerWorkers,
		stream.ProcessedJobHandler(svc, log),
		log,
	)

	var wg sync.WaitGroup
	for _, c := range []*stream.Consumer{rawConsumer, processedConsumer} {
		wg.Add(1)
		go func(c *stream.Consumer) {
			defer wg.Done()
			if err := c.Start(ctx); err != nil {
				log.Error("consumer stopped with error", zap.Error(err))
			}
		}(c)
	}

	sched := scheduler.New(orchestrator, cfg, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	server := api.NewServer(cfg.HTTPAddr, svc, orchestrator, log)
	if err := server.Start(ctx); err != nil {
		log.Error("HTTP server stopped with error", zap.Error(err))
	}

	log.Info("shutting down gracefully...")

	sched.Stop()
	cancel()
	wg.Wait()

	log.Info("jobcompass stopped")
}
