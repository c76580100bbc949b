package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paperstreet/stocksim/internal/api"
	"github.com/paperstreet/stocksim/internal/config"
	"github.com/paperstreet/stocksim/internal/database"
	"github.com/paperstreet/stocksim/internal/engine"
	"github.com/paperstreet/stocksim/internal/kafka"
	"github.com/paperstreet/stocksim/internal/poller"
	"github.com/paperstreet/stocksim/internal/quote"
	"github.com/paperstreet/stocksim/internal/rng"
	"github.com/paperstreet/stocksim/internal/store"
)

func main() {
	cfg := config.Load()

	// History store backend
	var hs store.HistoryStore
	switch cfg.Store.Backend {
	case "postgres":
		db, err := database.New(cfg.Store.Database.ConnectionString())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Migrate(cfg.Store.Database.MigrationsPath); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		hs = db
		log.Printf("Using postgres history store (%s)", cfg.Store.Database.Host)
	default:
		fs, err := store.NewFileStore(cfg.Store.FilePath)
		if err != nil {
			log.Fatalf("Failed to open file store: %v", err)
		}
		hs = fs
		log.Printf("Using file history store (%s)", cfg.Store.FilePath)
	}

	// Quote fetcher, optionally behind a Redis cache
	var fetcher quote.Fetcher = quote.NewYahooFetcher(cfg.Quote.FetchTimeout)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		fetcher = quote.NewCachedFetcher(fetcher, rdb, cfg.Redis.QuoteTTL)
		log.Printf("Quote cache enabled (%s, ttl %s)", cfg.Redis.Addr, cfg.Redis.QuoteTTL)
	}

	eng := engine.New(hs, fetcher, rng.NewTime(), engine.Params{
		BaseVol:   cfg.Random.BaseVol,
		JumpProb:  cfg.Random.JumpProb,
		JumpScale: cfg.Random.JumpScale,
	})
	eng.SetUseRandomPrices(cfg.Random.UseRandomPrices)

	// Kafka
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
		defer producer.Close()
		log.Printf("Kafka producer enabled (topic %s)", cfg.Kafka.EventTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled && cfg.Kafka.TickTopic != "" {
		consumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TickTopic, cfg.Kafka.GroupID, hs)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Printf("Kafka consumer stopped: %v", err)
			}
		}()
	}

	// Background poller
	var events poller.EventPublisher
	if producer != nil {
		events = producer
	}
	p := poller.New(eng, cfg.Poller.Symbols, cfg.Poller.Interval, events)
	p.Start()

	// HTTP server
	handler := api.NewHandler(eng, producer)
	router := api.SetupRoutes(handler, cfg.Server.APIKey)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	p.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
}
