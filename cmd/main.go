package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"interview-live-service/internal/app"
	"interview-live-service/internal/config"
	"interview-live-service/internal/events"
	api "interview-live-service/internal/http"
	"interview-live-service/internal/observability"
	"interview-live-service/internal/service/backend"
	"interview-live-service/internal/store"
)

func main() {
	// Optional; production deployments inject environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}
	defer application.Shutdown()

	// Kafka publisher with separate topics for completed turns and
	// ended sessions
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicTurn:    cfg.Kafka.TopicTurn,
		TopicSession: cfg.Kafka.TopicSession,
		Principal:    cfg.Kafka.Principal,
	})
	defer publisher.Close()

	interviews, err := newRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Interview store initialization failed")
	}

	backendClient := backend.NewClient(cfg.Backend.TurnURL, cfg.Backend.RequestTimeout)

	metricsServer := observability.NewServer(":"+cfg.Observability.MetricsPort, backendClient.Health)
	metricsServer.Start()

	router := api.NewRouter(application, interviews, backendClient)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Service.HTTPPort,
		Handler: router,
	}

	go func() {
		application.Logger.Info().
			Str("port", cfg.Service.HTTPPort).
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	application.Logger.Info().Msg("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("Metrics shutdown failed")
	}
}

// newRepository selects the interview store. A configured database URL
// selects PostgreSQL, otherwise records live in process memory.
func newRepository(cfg *config.Configuration) (store.Repository, error) {
	if cfg.Store.DatabaseURL != "" {
		return store.NewPostgresRepository(cfg.Store.DatabaseURL)
	}
	log.Warn().Msg("DATABASE_URL not set, using in-memory interview store")
	return store.NewMemoryRepository(), nil
}
