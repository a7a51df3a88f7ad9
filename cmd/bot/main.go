package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hh-tools/go-analyzer/internal/analytics"
	"github.com/hh-tools/go-analyzer/internal/analytics/salary"
	"github.com/hh-tools/go-analyzer/internal/archive"
	"github.com/hh-tools/go-analyzer/internal/bot"
	"github.com/hh-tools/go-analyzer/internal/config"
	"github.com/hh-tools/go-analyzer/internal/hhapi"
	"github.com/hh-tools/go-analyzer/internal/indexer"
	"github.com/hh-tools/go-analyzer/internal/store"
	"github.com/hh-tools/go-analyzer/internal/telegram"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting HH Analytics Bot")

	// Load configuration
	cfg := config.Load()
	if cfg.Telegram.Token == "" {
		log.Fatal("HH_BOT_TOKEN is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// HH API client, with a Redis-backed search cache when available
	hhOpts := []hhapi.Option{
		hhapi.WithBaseURL(cfg.HH.BaseURL),
		hhapi.WithPagination(cfg.HH.PerPage, cfg.HH.MaxPages),
		hhapi.WithPageDelay(cfg.HH.RequestDelay),
	}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		log.Println("Redis connected")
		hhOpts = append(hhOpts, hhapi.WithCache(hhapi.NewRedisCache(rdb, "hhapi"), cfg.HH.CacheTTL))
	} else {
		log.Println("Redis not configured, using in-memory search cache")
		hhOpts = append(hhOpts, hhapi.WithCache(hhapi.NewMemoryCache(), cfg.HH.CacheTTL))
	}
	hhClient := hhapi.NewClient(hhOpts...)

	// Analysis history in PostgreSQL
	var history bot.History
	if cfg.Postgres.Enabled {
		st, err := store.New(cfg.Postgres.URL)
		if err != nil {
			log.Fatalf("Postgres connection failed: %v", err)
		}
		defer st.Close()
		log.Println("Postgres connected")
		history = st
	} else {
		log.Println("Postgres not configured, analyses will not be saved")
	}

	// Vacancy archive in Elasticsearch
	var archiver bot.Archiver
	if cfg.Elasticsearch.Enabled {
		esIndexer, err := indexer.NewElasticsearchIndexer(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
		if err != nil {
			log.Fatalf("Elasticsearch connection failed: %v", err)
		}
		log.Printf("Elasticsearch connected, index: %s", cfg.Elasticsearch.Index)

		if err := esIndexer.EnsureIndex(ctx); err != nil {
			log.Printf("Warning: Failed to ensure index: %v", err)
		}
		archiver = archive.New(esIndexer, archive.Config{
			Concurrency: cfg.Archive.Concurrency,
			BatchSize:   cfg.Archive.BatchSize,
		})
	} else {
		log.Println("Elasticsearch not configured, vacancies will not be archived")
	}

	rates := salary.Rates{"USD": cfg.Rates.USD, "EUR": cfg.Rates.EUR}
	tgClient := telegram.NewClient(cfg.Telegram.Token, telegram.WithPollTimeout(cfg.Telegram.PollTimeout))
	service := bot.New(tgClient, hhClient, analytics.New(rates), history, archiver)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := service.Run(ctx, tgClient); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, stopping...")
	cancel()

	// Wait for goroutines to finish
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Graceful shutdown complete")
	case <-time.After(30 * time.Second):
		log.Println("Shutdown timeout, forcing exit")
	}
}
