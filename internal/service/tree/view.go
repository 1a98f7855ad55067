package tree

import (
	"strconv"
	"strings"

	models "treeview/internal/domain/models/tree"
)

// VisibleNodes annotates the store's visible sequence with selection state
func VisibleNodes(store *Store) []models.VisibleNode {
	visible := store.Visible()
	out := make([]models.VisibleNode, 0, len(visible))

	for _, n := range visible {
		switch node := n.(type) {
		case *models.FolderNode:
			expanded := node.Expanded
			hasChildren := !node.IsEmpty()
			out = append(out, models.VisibleNode{
				ID:          node.ID,
				Kind:        models.KindFolder,
				OriginalID:  node.OriginalID,
				Title:       node.Title,
				Level:       node.Level,
				Expanded:    &expanded,
				HasChildren: &hasChildren,
				State:       store.FolderState(node.ID),
			})
		case *models.ItemNode:
			selected := store.IsSelected(node.OriginalID)
			out = append(out, models.VisibleNode{
				ID:         node.ID,
				Kind:       models.KindItem,
				OriginalID: node.OriginalID,
				Title:      node.Title,
				Level:      node.Level,
				Selected:   &selected,
			})
		}
	}
	return out
}

// SelectionSummary renders selected ids as "1, 2, 10"
func SelectionSummary(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// buildView assembles the outbound view of one session
func buildView(id string, store *Store, loader *Loader) *models.SessionView {
	status, err := loader.Status()
	selected := store.SelectedItemIDs()

	view := &models.SessionView{
		ID:              id,
		Version:         store.Version(),
		Status:          string(status),
		SelectedItemIDs: selected,
		SelectedSummary: SelectionSummary(selected),
		Nodes:           VisibleNodes(store),
		LoadedAt:        loader.LoadedAt(),
	}
	if err != nil {
		view.Error = err.Error()
	}
	return view
}
