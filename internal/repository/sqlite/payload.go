package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
	treeRepo "treeview/internal/domain/repositories/tree"
)

// TableNames holds the environment-prefixed table names
type TableNames struct {
	Folders string
	Items   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders: prefix + "folders",
		Items:   prefix + "items",
	}
}

// PayloadRepository serves the payload from a SQLite database file
type PayloadRepository struct {
	db     *sql.DB
	tables *TableNames
	logger *slog.Logger
}

var _ treeRepo.PayloadStore = (*PayloadRepository)(nil)

// Open opens (or creates) the SQLite database at path.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// An in-memory database lives and dies with its connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// NewPayloadRepository creates a new payload repository
func NewPayloadRepository(db *sql.DB, tables *TableNames, logger *slog.Logger) *PayloadRepository {
	return &PayloadRepository{db: db, tables: tables, logger: logger}
}

// Load reads every folder and item row
func (r *PayloadRepository) Load(ctx context.Context) (*models.Payload, error) {
	folders, err := r.loadFolders(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewPayload(folders, items), nil
}

func (r *PayloadRepository) loadFolders(ctx context.Context) ([]models.FolderRow, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, title, parent_id FROM %s ORDER BY id`, r.tables.Folders))
	if err != nil {
		return nil, wrap("query folders", err)
	}
	defer rows.Close()

	var folders []models.FolderRow
	for rows.Next() {
		var f models.FolderRow
		var parent sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Title, &parent); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		if parent.Valid {
			f.ParentID = &parent.Int64
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

func (r *PayloadRepository) loadItems(ctx context.Context) ([]models.ItemRow, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, title, folder_id FROM %s ORDER BY id`, r.tables.Items))
	if err != nil {
		return nil, wrap("query items", err)
	}
	defer rows.Close()

	var items []models.ItemRow
	for rows.Next() {
		var it models.ItemRow
		var folder sql.NullInt64
		if err := rows.Scan(&it.ID, &it.Title, &folder); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if folder.Valid {
			it.FolderID = &folder.Int64
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// wrap maps a missing table to ErrNotFound
func wrap(op string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: payload tables missing, run the seeder: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// EnsureSchema creates the folders and items tables
func (r *PayloadRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id        INTEGER PRIMARY KEY,
			title     TEXT NOT NULL,
			parent_id INTEGER NULL
		)`, r.tables.Folders),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id        INTEGER PRIMARY KEY,
			title     TEXT NOT NULL,
			folder_id INTEGER NULL
		)`, r.tables.Items),
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Replace swaps the table contents for the given rows in one transaction
func (r *PayloadRepository) Replace(ctx context.Context, folders []models.FolderRow, items []models.ItemRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	for _, table := range []string{r.tables.Items, r.tables.Folders} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	folderStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (id, title, parent_id) VALUES (?, ?, ?)`, r.tables.Folders))
	if err != nil {
		return fmt.Errorf("prepare folder insert: %w", err)
	}
	defer folderStmt.Close()
	for _, f := range folders {
		if _, err := folderStmt.ExecContext(ctx, f.ID, f.Title, f.ParentID); err != nil {
			return fmt.Errorf("insert folder %d: %w", f.ID, err)
		}
	}

	itemStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (id, title, folder_id) VALUES (?, ?, ?)`, r.tables.Items))
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer itemStmt.Close()
	for _, it := range items {
		if _, err := itemStmt.ExecContext(ctx, it.ID, it.Title, it.FolderID); err != nil {
			return fmt.Errorf("insert item %d: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.Info("payload replaced", "folder_count", len(folders), "item_count", len(items))
	return nil
}

// Clear deletes all rows but keeps the schema
func (r *PayloadRepository) Clear(ctx context.Context) error {
	for _, table := range []string{r.tables.Items, r.tables.Folders} {
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// DropSchema drops both tables
func (r *PayloadRepository) DropSchema(ctx context.Context) error {
	for _, table := range []string{r.tables.Items, r.tables.Folders} {
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
