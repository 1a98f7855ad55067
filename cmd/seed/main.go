package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"treeview/internal/config"
	treeRepo "treeview/internal/domain/repositories/tree"
	"treeview/internal/repository/file"
	"treeview/internal/repository/postgres"
	"treeview/internal/repository/sqlite"
	serviceTree "treeview/internal/service/tree"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop the payload tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't load rows")
	clearData := flag.Bool("clear-data", false, "Delete all folder and item rows (keep schema)")
	payloadFile := flag.String("file", "", "Payload file to load (JSON or YAML); defaults to PAYLOAD_FILE")
	target := flag.String("target", "", "Database to seed: postgres or sqlite; defaults to PAYLOAD_SOURCE")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	if *payloadFile == "" {
		*payloadFile = cfg.PayloadFile
	}
	if *target == "" {
		*target = cfg.PayloadSource
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	store, closeStore := openStore(ctx, *target, cfg, logger)
	defer closeStore()

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding %s from %s (environment: %s, prefix: %s)", *target, *payloadFile, cfg.Environment, cfg.TablePrefix)
	}

	if *dropTables {
		log.Println("Dropping payload tables...")
		if err := store.DropSchema(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	if *clearData {
		if err := store.Clear(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared successfully")
		return
	}

	payload, err := file.NewPayloadSource(*payloadFile).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}

	// Rows are checked the same way the tree builder checks them
	folders, items, err := serviceTree.DecodeRows(payload)
	if err != nil {
		log.Fatalf("Refusing to seed malformed payload: %v", err)
	}

	if err := store.Replace(ctx, folders, items); err != nil {
		log.Fatalf("Failed to seed rows: %v", err)
	}

	log.Printf("Seeding complete: %d folders, %d items", len(folders), len(items))
}

// openStore connects to the database named by target
func openStore(ctx context.Context, target string, cfg *config.Config, logger *slog.Logger) (treeRepo.PayloadStore, func()) {
	switch target {
	case config.SourcePostgres:
		if cfg.DatabaseURL == "" {
			log.Fatalf("DATABASE_URL is required to seed postgres")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolSize{MaxConns: 2})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		return postgres.NewPayloadRepository(repoConfig, postgres.NewTransactionManager(pool, logger)), pool.Close

	case config.SourceSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite: %v", err)
		}
		return sqlite.NewPayloadRepository(db, sqlite.NewTableNames(cfg.TablePrefix), logger), func() { _ = db.Close() }

	default:
		log.Fatalf("Unknown seed target %q (want postgres or sqlite)", target)
		return nil, nil
	}
}
