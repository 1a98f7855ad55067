package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
)

func newTestRepo(t *testing.T) *PayloadRepository {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPayloadRepository(db, NewTableNames("test_"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func int64Ptr(v int64) *int64 { return &v }

func TestPayloadRepository_MissingTables(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Load(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestPayloadRepository_ReplaceAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	folders := []models.FolderRow{
		{ID: 2, Title: "Child", ParentID: int64Ptr(1)},
		{ID: 1, Title: "Root"},
	}
	items := []models.ItemRow{
		{ID: 10, Title: "Leaf", FolderID: int64Ptr(2)},
		{ID: 11, Title: "Loose"},
	}
	if err := repo.Replace(ctx, folders, items); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	payload, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Rows come back ordered by id
	gotFolders := payload.Folders.Data
	if len(gotFolders) != 2 {
		t.Fatalf("folders = %v", gotFolders)
	}
	if gotFolders[0][0] != int64(1) || gotFolders[0][1] != "Root" || gotFolders[0][2] != nil {
		t.Errorf("folder row 0 = %v", gotFolders[0])
	}
	if gotFolders[1][2] != int64(1) {
		t.Errorf("folder row 1 parent = %v, want 1", gotFolders[1][2])
	}

	gotItems := payload.Items.Data
	if len(gotItems) != 2 || gotItems[0][2] != int64(2) || gotItems[1][2] != nil {
		t.Errorf("items = %v", gotItems)
	}

	// A second replace swaps the contents
	if err := repo.Replace(ctx, folders[1:], nil); err != nil {
		t.Fatalf("second Replace() error = %v", err)
	}
	payload, _ = repo.Load(ctx)
	if len(payload.Folders.Data) != 1 || len(payload.Items.Data) != 0 {
		t.Errorf("after second Replace: %d folders, %d items", len(payload.Folders.Data), len(payload.Items.Data))
	}
}

func TestPayloadRepository_ReplaceRollsBackOnDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_ = repo.EnsureSchema(ctx)

	if err := repo.Replace(ctx, []models.FolderRow{{ID: 1, Title: "Keep"}}, nil); err != nil {
		t.Fatal(err)
	}

	dup := []models.FolderRow{{ID: 5, Title: "A"}, {ID: 5, Title: "B"}}
	if err := repo.Replace(ctx, dup, nil); err == nil {
		t.Fatal("Replace() with duplicate ids should fail")
	}

	payload, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(payload.Folders.Data) != 1 || payload.Folders.Data[0][1] != "Keep" {
		t.Errorf("failed replace was not rolled back: %v", payload.Folders.Data)
	}
}

func TestPayloadRepository_ClearAndDrop(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_ = repo.EnsureSchema(ctx)
	_ = repo.Replace(ctx, []models.FolderRow{{ID: 1, Title: "Root"}}, []models.ItemRow{{ID: 1, Title: "Leaf", FolderID: int64Ptr(1)}})

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	payload, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(payload.Folders.Data) != 0 || len(payload.Items.Data) != 0 {
		t.Errorf("Clear() left rows: %+v", payload)
	}

	if err := repo.DropSchema(ctx); err != nil {
		t.Fatalf("DropSchema() error = %v", err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Load() after drop error = %v, want ErrNotFound", err)
	}
}
