package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dudukuster/star-wars-api/pkg/api"
	"github.com/dudukuster/star-wars-api/pkg/logging"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

func main() {
	// A missing .env file is fine; the environment wins anyway.
	_ = godotenv.Load()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnvBool("LOG_PRETTY", false),
		Output: os.Stderr,
	})

	cfg := swapi.DefaultConfig()
	cfg.BaseURL = getEnv("SWAPI_BASE_URL", cfg.BaseURL)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)
	cfg.CacheSize = getEnvInt("CACHE_SIZE", cfg.CacheSize)
	cfg.RequestsPerSecond = getEnvInt("UPSTREAM_RPS", cfg.RequestsPerSecond)

	client, err := swapi.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create SWAPI client")
	}

	server := api.NewServer(client, api.Config{
		Workers: getEnvInt("FETCH_WORKERS", 5),
	})

	addr := ":" + getEnv("PORT", "8080")
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("upstream", cfg.BaseURL).
			Msg("Starting Star Wars API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.EqualFold(value, "true")
}
