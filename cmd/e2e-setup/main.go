package main

import (
	"context"
	"flag"
	"log"

	"unified-ai-chat/internal/config"
	"unified-ai-chat/internal/infra/db/postgres"
	"unified-ai-chat/internal/infra/redis"
)

// This script sets up a clean, predictable database state for manual
// end-to-end testing: schema applied, all data wiped, cache flushed.
func main() {
	ctx := context.Background()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	log.Println("[1/3] Applying schema...")
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			last_login    TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS chat_sessions (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			title       TEXT NOT NULL DEFAULT '',
			ai_settings JSONB NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chat_messages (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id),
			session_id     TEXT NOT NULL REFERENCES chat_sessions(id),
			message_type   TEXT NOT NULL,
			content        TEXT NOT NULL,
			ai_models_used TEXT[],
			created_at     TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages (user_id, created_at);
	`)
	if err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	log.Println("[2/3] Wiping existing data...")
	_, err = pool.Exec(ctx, `TRUNCATE users, chat_sessions, chat_messages CASCADE;`)
	if err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	log.Println("[3/3] Flushing Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	log.Println("--- E2E Environment Setup Complete ---")
}
