package tree

import (
	models "treeview/internal/domain/models/tree"
)

// Flatten returns the visible nodes in document order.
// A node is emitted when every ancestor folder is expanded; a collapsed folder
// is emitted itself but its subtree is skipped.
func Flatten(roots []models.Node) []models.Node {
	result := make([]models.Node, 0, len(roots))

	var walk func(nodes []models.Node)
	walk = func(nodes []models.Node) {
		for _, n := range nodes {
			result = append(result, n)
			if folder, ok := n.(*models.FolderNode); ok && folder.Expanded {
				walk(folder.Children)
			}
		}
	}

	walk(roots)
	return result
}

// collectItems returns the original ids of every item beneath the given nodes.
// Folders contribute nothing themselves.
func collectItems(nodes []models.Node) []int64 {
	var ids []int64

	var walk func(nodes []models.Node)
	walk = func(nodes []models.Node) {
		for _, n := range nodes {
			switch node := n.(type) {
			case *models.FolderNode:
				walk(node.Children)
			case *models.ItemNode:
				ids = append(ids, node.OriginalID)
			}
		}
	}

	walk(nodes)
	return ids
}
