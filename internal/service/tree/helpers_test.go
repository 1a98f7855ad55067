package tree

import (
	"context"
	"sync"
	"testing"

	models "treeview/internal/domain/models/tree"
)

// payloadOf builds a payload from positional rows
func payloadOf(folders, items [][]any) *models.Payload {
	if folders == nil {
		folders = [][]any{}
	}
	if items == nil {
		items = [][]any{}
	}
	return &models.Payload{
		Folders: &models.DataSection{Columns: models.DefaultFolderColumns, Data: folders},
		Items:   &models.DataSection{Columns: models.DefaultItemColumns, Data: items},
	}
}

// samplePayload:
//
//	Documents (1)
//	  Reports (2): Item 10, Item 2, Item 1
//	  Archive (3): Old
//	  Readme
//	Empty (4)
func samplePayload() *models.Payload {
	return payloadOf(
		[][]any{
			{int64(1), "Documents", nil},
			{int64(2), "Reports", int64(1)},
			{int64(3), "Archive", int64(1)},
			{int64(4), "Empty", nil},
		},
		[][]any{
			{int64(101), "Readme", int64(1)},
			{int64(102), "Item 10", int64(2)},
			{int64(103), "Item 2", int64(2)},
			{int64(104), "Item 1", int64(2)},
			{int64(105), "Old", int64(3)},
		},
	)
}

func mustBuild(t testing.TB, payload *models.Payload) []models.Node {
	t.Helper()
	roots, err := Build(payload)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return roots
}

func loadedStore(t testing.TB, payload *models.Payload) *Store {
	t.Helper()
	s := NewStore()
	s.LoadTree(mustBuild(t, payload))
	return s
}

func titles(nodes []models.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

// stubSource is a PayloadSource driven by a function
type stubSource struct {
	mu    sync.Mutex
	calls int
	fn    func(call int) (*models.Payload, error)
}

func (s *stubSource) Load(ctx context.Context) (*models.Payload, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	return s.fn(call)
}

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
