package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/badminton-network/internal/notifier"
	"github.com/you/badminton-network/internal/worker"
)

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("[notify] %s is required", key)
	}
	return v
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	_ = godotenv.Load()

	cfg := worker.Config{
		RabbitURL: mustEnv("RABBIT_URL"),
		Exchange:  envOr("EVENTS_EXCHANGE", "community.exchange"),
		Queue:     envOr("NOTIFY_QUEUE", "notify.q"),
		Bindings: parseCSV(envOr("NOTIFY_BINDINGS",
			"booking.created,booking.paid,payment.failed,post.created,reply.created,tournament.created,tournament.registered")),
		Prefetch:    8,
		UseDLX:      true,
		DLXName:     envOr("NOTIFY_DLX", "notify.dlx"),
		DLXQueue:    envOr("NOTIFY_DLQ", "notify.dlq"),
		ServiceName: "notify-worker",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n notifier.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
		store := notifier.NewSubscriberStore(
			envOr("REDIS_ADDR", "localhost:6379"),
			os.Getenv("REDIS_PASSWORD"),
			redisDB,
		)
		if err := store.Ping(ctx); err != nil {
			log.Fatalf("[notify] redis unreachable: %v", err)
		}
		tg, err := notifier.NewTelegram(token, store)
		if err != nil {
			log.Fatalf("[notify] %v", err)
		}
		go tg.HandleCommands(ctx)
		n = tg
	} else {
		log.Println("[notify] TELEGRAM_BOT_TOKEN not set, logging to console")
		n = notifier.NewConsole()
	}

	cons := worker.NewConsumer(cfg, n)
	for {
		if err := cons.Connect(); err == nil {
			break
		} else {
			log.Printf("[notify] connect failed: %v, retrying in 3s", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}
	}
	defer cons.Close()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("[notify] shutting down")
		cancel()
	}()

	log.Printf("[notify] consuming queue=%s bindings=%v", cfg.Queue, cfg.Bindings)
	if err := cons.Run(ctx); err != nil {
		log.Fatalf("[notify] %v", err)
	}
}
