package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"treeview/internal/domain"
)

func TestPgErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantUndefined bool
		wantDuplicate bool
	}{
		{
			name:          "undefined table",
			err:           &pgconn.PgError{Code: "42P01"},
			wantUndefined: true,
		},
		{
			name:          "wrapped unique violation",
			err:           fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			wantDuplicate: true,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "22001"},
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPgUndefinedTableError(tt.err); got != tt.wantUndefined {
				t.Errorf("IsPgUndefinedTableError() = %v, want %v", got, tt.wantUndefined)
			}
			if got := IsPgDuplicateError(tt.err); got != tt.wantDuplicate {
				t.Errorf("IsPgDuplicateError() = %v, want %v", got, tt.wantDuplicate)
			}
		})
	}
}

func TestPayloadRepository_WrapMissingTable(t *testing.T) {
	repo := &PostgresPayloadRepository{tables: NewTableNames("test_")}

	err := repo.wrap("query folders", &pgconn.PgError{Code: "42P01"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("wrap() = %v, want ErrNotFound", err)
	}

	err = repo.wrap("query folders", errors.New("timeout"))
	if errors.Is(err, domain.ErrNotFound) {
		t.Errorf("wrap() = %v, should not map to ErrNotFound", err)
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	if tables.Folders != "dev_folders" || tables.Items != "dev_items" {
		t.Errorf("NewTableNames() = %+v", tables)
	}
}
