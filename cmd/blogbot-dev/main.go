package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"blogbot/internal/app"
)

// Development entry point: boots a throwaway ClickHouse container, points
// the application at it and runs until interrupted. Requires a local Docker
// daemon and a TELEGRAM_BOT_TOKEN.
func main() {
	ctx := context.Background()

	log.Println("Starting ClickHouse testcontainer...")

	clickhouseContainer, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword("devpassword"),
		clickhouse.WithDatabase("default"),
	)
	if err != nil {
		log.Fatalf("Failed to start ClickHouse container: %v", err)
	}

	defer func() {
		log.Println("Stopping ClickHouse container...")
		if err := clickhouseContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}()

	host, err := clickhouseContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	if err != nil {
		log.Fatalf("Failed to get container port: %v", err)
	}

	log.Printf("ClickHouse started at %s:%s", host, port.Port())

	os.Setenv("CLICKHOUSE_HOST", host)
	os.Setenv("CLICKHOUSE_PORT", port.Port())
	os.Setenv("CLICKHOUSE_DATABASE", "default")
	os.Setenv("CLICKHOUSE_USER", "default")
	os.Setenv("CLICKHOUSE_PASSWORD", "devpassword")
	os.Setenv("CLICKHOUSE_USE_TLS", "false")
	os.Setenv("USE_MOCK_DB", "false")

	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		log.Println("⚠️  TELEGRAM_BOT_TOKEN not set. Please set it in your .env file or environment.")
		log.Println("   The bot will fail to start without a valid token.")
	}

	log.Println("Remember to apply migrations against the container (go run ./cmd/migrate up)")
	log.Println("Starting application with ClickHouse backend...")

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Run()
	}()

	select {
	case <-sigChan:
		log.Println("Received shutdown signal")
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Application error: %v", err)
		}
	}
}
