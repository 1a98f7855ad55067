package tree

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	models "treeview/internal/domain/models/tree"
)

// genPayload draws folders whose parent is either absent, a known folder,
// or a dangling id, and items that point anywhere in the same range.
func genPayload(t *rapid.T) *models.Payload {
	folderCount := rapid.IntRange(0, 12).Draw(t, "folders")
	itemCount := rapid.IntRange(0, 30).Draw(t, "items")

	folders := make([][]any, folderCount)
	for i := range folders {
		var parent any
		if rapid.Bool().Draw(t, fmt.Sprintf("folder_%d_nested", i)) {
			parent = int64(rapid.IntRange(1, folderCount+2).Draw(t, fmt.Sprintf("folder_%d_parent", i)))
		}
		title := rapid.SampledFrom([]string{"a", "B", "Item 2", "Item 10", "z"}).Draw(t, fmt.Sprintf("folder_%d_title", i))
		folders[i] = []any{int64(i + 1), title, parent}
	}

	items := make([][]any, itemCount)
	for i := range items {
		var folder any
		if rapid.IntRange(0, 9).Draw(t, fmt.Sprintf("item_%d_loose", i)) > 0 {
			folder = int64(rapid.IntRange(1, folderCount+2).Draw(t, fmt.Sprintf("item_%d_folder", i)))
		}
		title := rapid.SampledFrom([]string{"a", "B", "Item 2", "Item 10", "z"}).Draw(t, fmt.Sprintf("item_%d_title", i))
		items[i] = []any{int64(i + 1), title, folder}
	}

	return payloadOf(folders, items)
}

// checkLevels verifies every child sits exactly one level below its folder
func checkLevels(t *rapid.T, nodes []models.Node, level int) {
	order := newTitleOrder()
	for i, n := range nodes {
		if n.Depth() != level {
			t.Fatalf("%s level = %d, want %d", n.Key(), n.Depth(), level)
		}
		if i > 0 && order.compare(nodes[i-1], n) > 0 {
			t.Fatalf("siblings out of order: %s before %s", nodes[i-1].Name(), n.Name())
		}
		if f, ok := n.(*models.FolderNode); ok {
			if f.Expanded == f.IsEmpty() {
				t.Fatalf("%s expanded = %v with %d children", f.ID, f.Expanded, len(f.Children))
			}
			checkLevels(t, f.Children, level+1)
		}
	}
}

func TestProperty_BuildShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		roots, err := Build(genPayload(t))
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		checkLevels(t, roots, 0)

		// Every key appears at most once
		seen := make(map[string]bool)
		for _, n := range Flatten(roots) {
			if seen[n.Key()] {
				t.Fatalf("duplicate key %s", n.Key())
			}
			seen[n.Key()] = true
		}
	})
}

func TestProperty_FlattenIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore()
		s.LoadTree(mustBuildRapid(t, genPayload(t)))

		first := titles(Flatten(s.Roots()))
		if second := titles(Flatten(s.Roots())); !slices.Equal(first, second) {
			t.Fatalf("Flatten() changed between calls")
		}
	})
}

func TestProperty_SelectionConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore()
		s.LoadTree(mustBuildRapid(t, genPayload(t)))

		folderIDs := make([]string, 0, s.FolderCount())
		for _, n := range Flatten(s.Roots()) {
			if f, ok := n.(*models.FolderNode); ok {
				folderIDs = append(folderIDs, f.ID)
			}
		}

		steps := rapid.IntRange(0, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("op_%d", i)) {
			case 0:
				s.ToggleItem(int64(rapid.IntRange(1, 35).Draw(t, fmt.Sprintf("item_%d", i))))
			case 1:
				if len(folderIDs) == 0 {
					continue
				}
				id := rapid.SampledFrom(folderIDs).Draw(t, fmt.Sprintf("folder_%d", i))
				s.ToggleFolder(id)
				if len(s.descendantItems(id)) > 0 && s.FolderState(id) == models.Indeterminate {
					t.Fatalf("%s is indeterminate right after a folder toggle", id)
				}
			case 2:
				if len(folderIDs) == 0 {
					continue
				}
				id := rapid.SampledFrom(folderIDs).Draw(t, fmt.Sprintf("expand_%d", i))
				s.SetExpanded(id, rapid.Bool().Draw(t, fmt.Sprintf("expanded_%d", i)))
			case 3:
				s.SelectAll()
			case 4:
				s.ClearAll()
			}
		}

		// Selected ids are real items
		for _, id := range s.SelectedItemIDs() {
			if _, ok := s.items[id]; !ok {
				t.Fatalf("selected id %d is not in the tree", id)
			}
		}

		// Folder states agree with a fresh count
		for _, id := range folderIDs {
			folder, _ := s.Folder(id)
			ids := collectItems(folder.Children)
			selected := 0
			for _, itemID := range ids {
				if s.IsSelected(itemID) {
					selected++
				}
			}
			if got, want := s.FolderState(id), models.StateFromCounts(selected, len(ids)); got != want {
				t.Fatalf("%s state = %s, want %s", id, got, want)
			}
		}
	})
}

func mustBuildRapid(t *rapid.T, payload *models.Payload) []models.Node {
	roots, err := Build(payload)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return roots
}
