package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/foodyham/internal/api"
	"github.com/example/foodyham/internal/auth"
	"github.com/example/foodyham/internal/config"
	"github.com/example/foodyham/internal/email"
	"github.com/example/foodyham/internal/event"
	"github.com/example/foodyham/internal/infrastructure/kafka"
	"github.com/example/foodyham/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[StubAPI] Invalid configuration: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "foodyham-local-development-secret"
		log.Println("[StubAPI] JWT_SECRET not set, using the local development secret")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("[StubAPI] JWT_SECRET must be at least 32 characters long")
	}

	log.Println("[StubAPI] ========================================")
	log.Println("[StubAPI] Foodyham - Catalog/Auth collaborator")
	log.Println("[StubAPI] ========================================")

	// Publish order and catalog events when Kafka is configured
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[StubAPI] Kafka: %v (topic %s)", cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	// Mail confirmations directly only when no notifier consumes the topic
	var notifier api.Notifier
	if cfg.MailEnabled() && !cfg.KafkaEnabled() {
		notifier = email.NewService(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		log.Printf("[StubAPI] SMTP: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}

	repo := api.NewRepository()
	if err := repo.Seed(cfg.SeedPassword); err != nil {
		log.Fatalf("[StubAPI] Failed to seed demo data: %v", err)
	}
	log.Println("[StubAPI] Seeded menu and demo accounts (admin@foodyham.com, user@foodyham.com)")

	jwtService := auth.NewJWTService(jwtSecret, cfg.JWTExpiry)
	m := metrics.New(metrics.WithNamespace("foodyham_stub"))

	router := api.NewRouter(
		api.NewHandlers(repo, publisher, notifier),
		api.NewAuthHandlers(repo, jwtService),
		jwtService,
		m,
	)

	server := &http.Server{
		Addr:              cfg.StubAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[StubAPI] Server started on %s", cfg.StubAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[StubAPI] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[StubAPI] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[StubAPI] Shutdown error: %v", err)
	}
}
