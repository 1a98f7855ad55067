package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"treeview/internal/config"
	treeRepo "treeview/internal/domain/repositories/tree"
	"treeview/internal/handler"
	"treeview/internal/middleware"
	"treeview/internal/repository/file"
	"treeview/internal/repository/postgres"
	"treeview/internal/repository/sqlite"
	serviceTree "treeview/internal/service/tree"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"payload_source", cfg.PayloadSource,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openPayloadSource(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open payload source: %v", err)
	}
	defer closeSource()

	sessions := serviceTree.NewSessionManager(source, serviceTree.SessionConfig{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
	}, logger)

	payloadHandler := handler.NewPayloadHandler(source, logger)
	sessionHandler := handler.NewSessionHandler(sessions, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	handler.RegisterRoutes(mux, payloadHandler, sessionHandler)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.RequestID()(h)

	// CORS must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders: []string{"Location", "X-Request-ID"},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// openPayloadSource selects the configured backing store for GET /api/data and sessions.
// The returned func releases whatever the source holds open.
func openPayloadSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (treeRepo.PayloadSource, func(), error) {
	switch cfg.PayloadSource {
	case config.SourcePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.DefaultPoolSize)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("database connected",
			"max_conns", postgres.DefaultPoolSize.MaxConns,
			"min_conns", postgres.DefaultPoolSize.MinConns,
		)
		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		repo := postgres.NewPayloadRepository(repoConfig, postgres.NewTransactionManager(pool, logger))
		return repo, pool.Close, nil

	case config.SourceSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite opened", "path", cfg.SQLitePath)
		repo := sqlite.NewPayloadRepository(db, sqlite.NewTableNames(cfg.TablePrefix), logger)
		return repo, func() { closeDB(db, logger) }, nil

	default:
		logger.Info("serving payload file", "path", cfg.PayloadFile)
		return file.NewPayloadSource(cfg.PayloadFile), func() {}, nil
	}
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("failed to close sqlite", "error", err)
	}
}
