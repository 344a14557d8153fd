package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-chat/internal/config"
	"inventory-chat/internal/handlers"
	"inventory-chat/internal/http"
	"inventory-chat/internal/inventory"
	"inventory-chat/internal/llm"
	"inventory-chat/internal/service"
	"inventory-chat/internal/session"
	"inventory-chat/internal/storage"
	"inventory-chat/internal/supabase"
	"inventory-chat/internal/web"
)

// inventorySource is a Fetcher the health endpoint can probe.
type inventorySource interface {
	inventory.Fetcher
	handlers.Pinger
}

func main() {
	// Load configuration first. A missing credential stops startup here, before
	// any database or model client exists.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(startupFailure(err))
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	source, db, err := newInventorySource(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize inventory source: %v", err)
	}
	if db != nil {
		defer func() {
			_ = db.Close()
		}()
	}
	slog.Info("Inventory source initialized", "source", cfg.InventorySource, "table", cfg.TableName)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.ModelID)

	sessions, sessionPinger, closeSessions, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer closeSessions()
	slog.Info("Session store initialized", "store", cfg.SessionStore, "ttl", cfg.SessionTTL)

	chatService := service.NewChatService(source, llmClient, sessions)

	// Create router with dependencies
	deps := &http.Deps{
		ChatService:    chatService,
		Inventory:      source,
		Sessions:       sessionPinger,
		Model:          llmClient,
		PageTemplate:   web.IndexTemplate,
		RequestTimeout: cfg.RequestTimeout,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("Model configuration", "base_url", cfg.GeminiBaseURL, "model", cfg.ModelID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// startupFailure formats a configuration load error. A missing credential is reported
// as a configuration error so it reads apart from a malformed value.
func startupFailure(err error) string {
	if service.KindOf(err) == service.FailureConfiguration {
		return fmt.Sprintf("Configuration error: %v", err)
	}
	return fmt.Sprintf("Failed to load configuration: %v", err)
}

// newInventorySource builds the configured inventory source. The returned *sql.DB is
// non-nil for the SQL sources and must be closed by the caller.
func newInventorySource(cfg *config.Config) (inventorySource, *sql.DB, error) {
	switch cfg.InventorySource {
	case config.SourceSupabase:
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		return supabase.NewProductSource(client, cfg.TableName), nil, nil

	case config.SourcePostgres:
		db, err := storage.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewProductRepo(db, cfg.TableName), db, nil

	case config.SourceSQLite:
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := storage.Migrate(db, cfg.TableName); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Database initialized", "path", cfg.DBPath)
		return storage.NewProductRepo(db, cfg.TableName), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown inventory source %q", cfg.InventorySource)
	}
}

// newSessionStore builds the configured session store. The Pinger is nil for the
// in-memory store.
func newSessionStore(cfg *config.Config) (session.Store, handlers.Pinger, func(), error) {
	if cfg.SessionStore != config.StoreRedis {
		return session.NewMemoryStore(cfg.SessionTTL), nil, func() {}, nil
	}

	client := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	store := session.NewRedisStore(client, cfg.SessionTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	return store, store, func() {
		_ = client.Close()
	}, nil
}
