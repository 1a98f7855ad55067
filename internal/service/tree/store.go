package tree

import (
	"maps"
	"slices"

	models "treeview/internal/domain/models/tree"
)

// Store owns one tree snapshot and the set of selected item ids.
//
// A Store has exactly one logical writer. It does no locking of its own;
// callers that share a Store across goroutines serialize access themselves.
// Every query reads the live snapshot and selection, so results always
// reflect the latest mutation.
type Store struct {
	roots    []models.Node
	folders  map[string]*models.FolderNode // synthetic id -> current node
	parents  map[string]string             // folder id -> parent folder id, "" for roots
	items    map[int64]*models.ItemNode    // original id -> node
	selected map[int64]struct{}

	// descendant item ids per folder; depends on structure only
	descendants map[string][]int64

	version     uint64 // bumped on every mutation
	treeVersion uint64 // bumped when the snapshot or an expand flag changes

	visible        []models.Node
	visibleVersion uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.reset(nil)
	return s
}

// LoadTree replaces the snapshot and clears the selection.
// Selections from a previous snapshot are never carried over.
func (s *Store) LoadTree(roots []models.Node) {
	s.reset(roots)
	s.version++
	s.treeVersion++
}

func (s *Store) reset(roots []models.Node) {
	s.roots = roots
	s.folders = make(map[string]*models.FolderNode)
	s.parents = make(map[string]string)
	s.items = make(map[int64]*models.ItemNode)
	s.selected = make(map[int64]struct{})
	s.descendants = make(map[string][]int64)
	s.visible = nil
	s.index(roots, "")
}

func (s *Store) index(nodes []models.Node, parentID string) {
	for _, n := range nodes {
		switch node := n.(type) {
		case *models.FolderNode:
			s.folders[node.ID] = node
			s.parents[node.ID] = parentID
			s.index(node.Children, node.ID)
		case *models.ItemNode:
			s.items[node.OriginalID] = node
		}
	}
}

// ToggleItem flips the selection of one item. Unknown ids are ignored.
func (s *Store) ToggleItem(itemID int64) {
	if _, ok := s.items[itemID]; !ok {
		return
	}
	if _, ok := s.selected[itemID]; ok {
		delete(s.selected, itemID)
	} else {
		s.selected[itemID] = struct{}{}
	}
	s.version++
}

// ToggleFolder deselects every item under a checked folder and selects every
// item under an unchecked or indeterminate one. The expand flag is left alone.
func (s *Store) ToggleFolder(folderID string) {
	ids := s.descendantItems(folderID)
	if len(ids) == 0 {
		return
	}

	if s.stateOf(ids) == models.Checked {
		for _, id := range ids {
			delete(s.selected, id)
		}
	} else {
		for _, id := range ids {
			s.selected[id] = struct{}{}
		}
	}
	s.version++
}

// SetExpanded updates the expand flag of one folder.
//
// The folder and each of its ancestors are copied with a fresh child slice;
// every other node keeps its identity, so renderers can compare by pointer.
// Returns false when nothing changed: unknown id, same value, or an attempt
// to expand a folder without children.
func (s *Store) SetExpanded(folderID string, expanded bool) bool {
	target, ok := s.folders[folderID]
	if !ok || target.Expanded == expanded {
		return false
	}
	if expanded && target.IsEmpty() {
		return false
	}

	updated := *target
	updated.Expanded = expanded
	child := &updated

	for {
		s.folders[child.ID] = child
		parentID := s.parents[child.ID]
		if parentID == "" {
			s.roots = replaceNode(s.roots, child)
			break
		}
		parent := *s.folders[parentID]
		parent.Children = replaceNode(parent.Children, child)
		child = &parent
	}

	s.version++
	s.treeVersion++
	return true
}

// ToggleExpanded flips the expand flag of one folder
func (s *Store) ToggleExpanded(folderID string) bool {
	folder, ok := s.folders[folderID]
	if !ok {
		return false
	}
	return s.SetExpanded(folderID, !folder.Expanded)
}

// replaceNode returns a copy of nodes with the folder sharing next's id swapped for next
func replaceNode(nodes []models.Node, next *models.FolderNode) []models.Node {
	out := slices.Clone(nodes)
	for i, n := range out {
		if f, ok := n.(*models.FolderNode); ok && f.ID == next.ID {
			out[i] = next
			break
		}
	}
	return out
}

// SelectAll selects every item in the snapshot
func (s *Store) SelectAll() {
	s.selected = make(map[int64]struct{}, len(s.items))
	for id := range s.items {
		s.selected[id] = struct{}{}
	}
	s.version++
}

// ClearAll empties the selection
func (s *Store) ClearAll() {
	s.selected = make(map[int64]struct{})
	s.version++
}

// IsSelected reports whether an item is selected
func (s *Store) IsSelected(itemID int64) bool {
	_, ok := s.selected[itemID]
	return ok
}

// FolderState derives the checkbox state of a folder from its descendant items.
// Unknown folders are unchecked.
func (s *Store) FolderState(folderID string) models.CheckboxState {
	return s.stateOf(s.descendantItems(folderID))
}

func (s *Store) stateOf(ids []int64) models.CheckboxState {
	selected := 0
	for _, id := range ids {
		if _, ok := s.selected[id]; ok {
			selected++
		}
	}
	return models.StateFromCounts(selected, len(ids))
}

func (s *Store) descendantItems(folderID string) []int64 {
	if ids, ok := s.descendants[folderID]; ok {
		return ids
	}
	folder, ok := s.folders[folderID]
	if !ok {
		return nil
	}
	ids := collectItems(folder.Children)
	s.descendants[folderID] = ids
	return ids
}

// Roots returns the current snapshot
func (s *Store) Roots() []models.Node {
	return s.roots
}

// Folder returns the current node for a folder id
func (s *Store) Folder(folderID string) (*models.FolderNode, bool) {
	f, ok := s.folders[folderID]
	return f, ok
}

// Visible returns the flattened visible sequence, recomputed only after the
// snapshot or an expand flag changed. The slice must not be modified.
func (s *Store) Visible() []models.Node {
	if s.visible == nil || s.visibleVersion != s.treeVersion {
		s.visible = Flatten(s.roots)
		s.visibleVersion = s.treeVersion
	}
	return s.visible
}

// SelectedItemIDs returns the selected item ids in ascending order
func (s *Store) SelectedItemIDs() []int64 {
	ids := slices.Sorted(maps.Keys(s.selected))
	if ids == nil {
		return []int64{}
	}
	return ids
}

// SelectedCount returns the number of selected items
func (s *Store) SelectedCount() int {
	return len(s.selected)
}

// ItemCount returns the number of items in the snapshot
func (s *Store) ItemCount() int {
	return len(s.items)
}

// FolderCount returns the number of folders in the snapshot
func (s *Store) FolderCount() int {
	return len(s.folders)
}

// Version increases on every mutation
func (s *Store) Version() uint64 {
	return s.version
}
