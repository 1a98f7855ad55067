package tree

import (
	models "treeview/internal/domain/models/tree"
)

// Build turns a flat folder/item payload into the nested, sorted tree.
//
// Folders without a parent become roots. A folder or item whose parent reference does
// not resolve is an orphan: it is left out of the result without an error. Folders that
// sit on a parent cycle are never reachable from a root and are dropped the same way.
//
// Build is pure; it never touches a Store. Levels and sorting are assigned recursively,
// so stack depth grows with tree depth.
func Build(payload *models.Payload) ([]models.Node, error) {
	folderRows, itemRows, err := DecodeRows(payload)
	if err != nil {
		return nil, err
	}

	return assemble(folderRows, itemRows), nil
}

// assemble builds the hierarchy from decoded rows in three passes
func assemble(folderRows []models.FolderRow, itemRows []models.ItemRow) []models.Node {
	folderMap := make(map[string]*models.FolderNode, len(folderRows))

	// First pass: create all folder nodes
	for _, row := range folderRows {
		node := &models.FolderNode{
			ID:         models.FolderKey(row.ID),
			OriginalID: row.ID,
			Title:      row.Title,
			Children:   []models.Node{},
		}
		if row.ParentID != nil {
			parentKey := models.FolderKey(*row.ParentID)
			node.ParentID = &parentKey
		}
		folderMap[node.ID] = node
	}

	// Second pass: nest folders under their parents
	roots := make([]models.Node, 0)
	for _, row := range folderRows {
		node := folderMap[models.FolderKey(row.ID)]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := folderMap[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	// Third pass: add items to their folders
	for _, row := range itemRows {
		if row.FolderID == nil {
			continue
		}
		folderKey := models.FolderKey(*row.FolderID)
		parent, ok := folderMap[folderKey]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, &models.ItemNode{
			ID:         models.ItemKey(row.ID),
			OriginalID: row.ID,
			Title:      row.Title,
			FolderID:   &folderKey,
		})
	}

	order := newTitleOrder()
	order.sort(roots)
	finalize(roots, 0, order)
	return roots
}

// finalize assigns levels, sorts children and collapses empty folders
func finalize(nodes []models.Node, level int, order *titleOrder) {
	for _, n := range nodes {
		switch node := n.(type) {
		case *models.FolderNode:
			node.Level = level
			node.Expanded = !node.IsEmpty()
			order.sort(node.Children)
			finalize(node.Children, level+1, order)
		case *models.ItemNode:
			node.Level = level
		}
	}
}
