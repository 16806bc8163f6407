package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/lingobot/internal/bot"
	"github.com/example/lingobot/internal/reminder"
	"github.com/example/lingobot/internal/storage"
)

func main() {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	// A failed load falls back to an empty pool; the bot keeps working and
	// the cause is logged.
	pool, err := store.LoadPool(ctx)
	if err != nil {
		log.Printf("Warning: starting with an empty pool: %v", err)
	}
	log.Printf("Loaded %d vocabulary items", len(pool.Items))

	b, err := bot.New(pool, store)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	rem := reminder.New(store, b)
	rem.Start()
	defer rem.Stop()

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped successfully")
}
