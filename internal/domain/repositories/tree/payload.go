package tree

import (
	"context"

	models "treeview/internal/domain/models/tree"
)

// PayloadSource supplies the flat folder/item payload.
// Implementations: file (JSON/YAML), postgres, sqlite, and the HTTP client.
type PayloadSource interface {
	// Load returns a fresh payload; each call re-reads the underlying source
	Load(ctx context.Context) (*models.Payload, error)
}

// PayloadStore is a writable payload source used by the seeder
type PayloadStore interface {
	PayloadSource

	// EnsureSchema creates the folders/items tables when missing
	EnsureSchema(ctx context.Context) error

	// Replace deletes all rows and inserts the given ones atomically
	Replace(ctx context.Context, folders []models.FolderRow, items []models.ItemRow) error

	// Clear deletes all rows but keeps the schema
	Clear(ctx context.Context) error

	// DropSchema drops the folders/items tables
	DropSchema(ctx context.Context) error
}
