package tree

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestNode_MarshalJSON(t *testing.T) {
	rootKey := FolderKey(1)
	child := &ItemNode{ID: ItemKey(10), OriginalID: 10, Title: "Leaf", Level: 1, FolderID: &rootKey}
	root := &FolderNode{
		ID:         rootKey,
		OriginalID: 1,
		Title:      "Root",
		Expanded:   true,
		Children:   []Node{child},
	}

	data, err := json.Marshal([]Node{root})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", data, err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d roots, want 1", len(got))
	}

	folder := got[0]
	if folder["kind"] != "folder" || folder["id"] != "folder:1" || folder["title"] != "Root" {
		t.Errorf("folder = %v", folder)
	}
	if folder["parent_id"] != nil || folder["expanded"] != true {
		t.Errorf("root folder fields = %v", folder)
	}

	children, ok := folder["children"].([]any)
	if !ok || len(children) != 1 {
		t.Fatalf("children = %v", folder["children"])
	}
	item := children[0].(map[string]any)
	if item["kind"] != "item" || item["id"] != "item:10" || item["folder_id"] != "folder:1" {
		t.Errorf("item = %v", item)
	}
	if item["original_id"] != float64(10) || item["level"] != float64(1) {
		t.Errorf("item numbers = %v", item)
	}
}

func TestNode_Accessors(t *testing.T) {
	tests := []struct {
		node      Node
		wantKind  NodeKind
		wantKey   string
		wantName  string
		wantDepth int
	}{
		{node: &FolderNode{ID: FolderKey(7), Title: "Docs", Level: 2}, wantKind: KindFolder, wantKey: "folder:7", wantName: "Docs", wantDepth: 2},
		{node: &ItemNode{ID: ItemKey(7), Title: "Readme", Level: 3}, wantKind: KindItem, wantKey: "item:7", wantName: "Readme", wantDepth: 3},
	}

	for _, tt := range tests {
		t.Run(tt.wantKey, func(t *testing.T) {
			if tt.node.Kind() != tt.wantKind || tt.node.Key() != tt.wantKey ||
				tt.node.Name() != tt.wantName || tt.node.Depth() != tt.wantDepth {
				t.Errorf("node = %v %v %v %v", tt.node.Kind(), tt.node.Key(), tt.node.Name(), tt.node.Depth())
			}
		})
	}
}

func TestStateFromCounts(t *testing.T) {
	tests := []struct {
		selected, total int
		want            CheckboxState
	}{
		{0, 0, Unchecked},
		{0, 3, Unchecked},
		{1, 3, Indeterminate},
		{3, 3, Checked},
	}

	for _, tt := range tests {
		if got := StateFromCounts(tt.selected, tt.total); got != tt.want {
			t.Errorf("StateFromCounts(%d, %d) = %s, want %s", tt.selected, tt.total, got, tt.want)
		}
	}
}
