package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
	"treeview/internal/domain/repositories"
	treeRepo "treeview/internal/domain/repositories/tree"
)

// PostgresPayloadRepository serves the payload from the folders and items tables
type PostgresPayloadRepository struct {
	pool      *pgxpool.Pool
	tables    *TableNames
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

var _ treeRepo.PayloadStore = (*PostgresPayloadRepository)(nil)

// NewPayloadRepository creates a new payload repository
func NewPayloadRepository(config *RepositoryConfig, txManager repositories.TransactionManager) *PostgresPayloadRepository {
	return &PostgresPayloadRepository{
		pool:      config.Pool,
		tables:    config.Tables,
		txManager: txManager,
		logger:    config.Logger,
	}
}

// Load reads every folder and item row
func (r *PostgresPayloadRepository) Load(ctx context.Context) (*models.Payload, error) {
	executor := GetExecutor(ctx, r.pool)

	folders, err := r.loadFolders(ctx, executor)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, executor)
	if err != nil {
		return nil, err
	}

	return models.NewPayload(folders, items), nil
}

func (r *PostgresPayloadRepository) loadFolders(ctx context.Context, executor repositories.DBTX) ([]models.FolderRow, error) {
	query := fmt.Sprintf(`
		SELECT id, title, parent_id
		FROM %s
		ORDER BY id
	`, r.tables.Folders)

	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, r.wrap("query folders", err)
	}

	folders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FolderRow, error) {
		var f models.FolderRow
		err := row.Scan(&f.ID, &f.Title, &f.ParentID)
		return f, err
	})
	if err != nil {
		return nil, r.wrap("scan folders", err)
	}
	return folders, nil
}

func (r *PostgresPayloadRepository) loadItems(ctx context.Context, executor repositories.DBTX) ([]models.ItemRow, error) {
	query := fmt.Sprintf(`
		SELECT id, title, folder_id
		FROM %s
		ORDER BY id
	`, r.tables.Items)

	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, r.wrap("query items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ItemRow, error) {
		var it models.ItemRow
		err := row.Scan(&it.ID, &it.Title, &it.FolderID)
		return it, err
	})
	if err != nil {
		return nil, r.wrap("scan items", err)
	}
	return items, nil
}

func (r *PostgresPayloadRepository) wrap(op string, err error) error {
	if IsPgUndefinedTableError(err) {
		return fmt.Errorf("%s: payload tables missing, run the seeder: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// EnsureSchema creates the folders and items tables.
// There are no foreign keys: dangling references are legal and become orphans.
func (r *PostgresPayloadRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id        BIGINT PRIMARY KEY,
				title     VARCHAR(255) NOT NULL,
				parent_id BIGINT NULL
			)
		`, r.tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id        BIGINT PRIMARY KEY,
				title     VARCHAR(255) NOT NULL,
				folder_id BIGINT NULL
			)
		`, r.tables.Items),
	}

	executor := GetExecutor(ctx, r.pool)
	for _, stmt := range statements {
		if _, err := executor.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Replace swaps the table contents for the given rows in one transaction
func (r *PostgresPayloadRepository) Replace(ctx context.Context, folders []models.FolderRow, items []models.ItemRow) error {
	return r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := r.Clear(txCtx); err != nil {
			return err
		}

		executor := GetExecutor(txCtx, r.pool)

		folderCount, err := executor.CopyFrom(txCtx,
			pgx.Identifier{r.tables.Folders},
			[]string{"id", "title", "parent_id"},
			pgx.CopyFromSlice(len(folders), func(i int) ([]any, error) {
				return []any{folders[i].ID, folders[i].Title, folders[i].ParentID}, nil
			}),
		)
		if err != nil {
			if IsPgDuplicateError(err) {
				return fmt.Errorf("insert folders: duplicate id: %w", domain.ErrValidation)
			}
			return fmt.Errorf("insert folders: %w", err)
		}

		itemCount, err := executor.CopyFrom(txCtx,
			pgx.Identifier{r.tables.Items},
			[]string{"id", "title", "folder_id"},
			pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
				return []any{items[i].ID, items[i].Title, items[i].FolderID}, nil
			}),
		)
		if err != nil {
			if IsPgDuplicateError(err) {
				return fmt.Errorf("insert items: duplicate id: %w", domain.ErrValidation)
			}
			return fmt.Errorf("insert items: %w", err)
		}

		r.logger.Info("payload replaced",
			"folder_count", folderCount,
			"item_count", itemCount,
		)
		return nil
	})
}

// Clear deletes all rows but keeps the schema
func (r *PostgresPayloadRepository) Clear(ctx context.Context) error {
	executor := GetExecutor(ctx, r.pool)
	for _, table := range []string{r.tables.Items, r.tables.Folders} {
		if _, err := executor.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// DropSchema drops both tables
func (r *PostgresPayloadRepository) DropSchema(ctx context.Context) error {
	executor := GetExecutor(ctx, r.pool)
	for _, table := range []string{r.tables.Items, r.tables.Folders} {
		if _, err := executor.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
