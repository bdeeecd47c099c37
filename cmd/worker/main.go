package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ankita-1110/smart-attendance/internal/config"
	"github.com/ankita-1110/smart-attendance/internal/queue"
	"github.com/ankita-1110/smart-attendance/internal/store"
	"github.com/ankita-1110/smart-attendance/internal/tally"
)

// Worker consumes mark events and maintains the live daily tally the
// admin dashboard reads from Redis.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr, store.RedisTimeouts{
		Dial:  cfg.RedisDialTimeout,
		Read:  cfg.RedisReadTimeout,
		Write: cfg.RedisWriteTimeout,
	})
	if !redisClient.Healthy(ctx) {
		log.Println("WARNING: redis not reachable, tally updates will fail until it is")
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendance:marks")
	}

	counters := tally.New(redisClient.Client)

	events, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for mark events...")
	for evt := range events {
		if evt.Date == "" {
			continue
		}
		if err := counters.Record(ctx, evt.Date, evt.Method); err != nil {
			log.Printf("tally update failed for record %s: %v", evt.RecordID, err)
			continue
		}
		log.Printf("tallied %s mark for %s", evt.Method, evt.Date)
	}

	log.Println("worker stopped")
}
