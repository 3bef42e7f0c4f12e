package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tugruldev/lighthouse-quest/internal/config"
	"github.com/tugruldev/lighthouse-quest/internal/handlers"
	"github.com/tugruldev/lighthouse-quest/internal/logger"
	"github.com/tugruldev/lighthouse-quest/internal/middleware"
	"github.com/tugruldev/lighthouse-quest/internal/services"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Lighthouse Quest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model_name", cfg.MistralModel)

	gameWorld, err := world.Load()
	if err != nil {
		log.Error("Failed to load world definition", "error", err)
		os.Exit(1)
	}

	// A missing credential is a configuration error at request time, not a
	// startup failure: liveness must keep answering.
	var llmService services.LLMService
	if cfg.MistralAPIKey == "" {
		log.Warn("MISTRAL_API_KEY is not set; interpret requests will fail until it is configured")
	} else {
		mistral := services.NewMistralService(cfg.MistralAPIKey, cfg.MistralModel)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := mistral.InitModel(ctx, cfg.MistralModel); err != nil {
			log.Error("Failed to initialize LLM model", "error", err, "model", cfg.MistralModel)
			cancel()
			os.Exit(1)
		}
		cancel()
		llmService = mistral
		log.Info("Using Mistral translation provider", "model", cfg.MistralModel)
	}

	// Session save/resume is optional and independent of interpretation.
	var sessionStore services.SessionStore
	if cfg.RedisAddr != "" {
		store := services.NewRedisSessionStore(cfg.RedisAddr, log)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.Ping(ctx); err != nil {
			log.Warn("Session store unreachable; continuing without save/resume", "error", err)
		} else {
			sessionStore = store
			log.Info("Session store connected", "addr", cfg.RedisAddr)
		}
		cancel()
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(sessionStore, llmService, log)
	mux.Handle("/", healthHandler)
	mux.Handle("/health", healthHandler)

	interpretHandler := handlers.NewInterpretHandler(llmService, gameWorld, log)
	mux.Handle("/interpret", interpretHandler)
	mux.Handle("/api/interpret", interpretHandler)

	if sessionStore != nil {
		sessionHandler := handlers.NewSessionHandler(sessionStore, gameWorld, cfg.SessionTTL, log)
		mux.Handle("/v1/sessions", sessionHandler)
		mux.Handle("/v1/sessions/", sessionHandler)
	}

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if sessionStore != nil {
		if err := sessionStore.Close(); err != nil {
			log.Error("Error closing session store", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
