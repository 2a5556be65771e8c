// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unified-ai-chat/internal/config"
	aiAdapters "unified-ai-chat/internal/infra/adapters/ai"
	pg "unified-ai-chat/internal/infra/db/postgres"
	"unified-ai-chat/internal/infra/logging"
	"unified-ai-chat/internal/infra/metrics"
	red "unified-ai-chat/internal/infra/redis"
	"unified-ai-chat/internal/infra/web"
	"unified-ai-chat/internal/infra/worker"
	"unified-ai-chat/internal/unified"
	"unified-ai-chat/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	responseCache := red.NewResponseCache(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	sessionRepo := pg.NewChatSessionRepo(pool)

	// ---- AI orchestrator ----
	clients := aiAdapters.BuildClients(ctx, &cfg.AI, logger)
	mode := aiAdapters.ResolveMode(cfg.AI.Mode, clients)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	aiService := unified.New(mode, clients, rng, logger)
	logger.Info().
		Bool("simulation", mode == unified.ModeSimulated).
		Int("live_providers", len(clients)).
		Msg("ai orchestrator ready")

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	chatUC := usecase.NewChatUseCase(sessionRepo, aiService, responseCache, logger)

	// ---- Workers ----
	pool2 := worker.NewPool(8, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	srv := web.NewServer(userUC, chatUC, auth, rateLimiter, cfg.RateLimit.ChatPerMinute, pool2, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := server.Shutdown(shutCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	cancel()
}
