package tree

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	models "treeview/internal/domain/models/tree"
)

// titleOrder sorts siblings: folders before items, then titles compared
// case-insensitively with digit runs ordered by numeric value ("Item 2" < "Item 10").
// A collator is not safe for concurrent use, so each build owns one.
type titleOrder struct {
	collator *collate.Collator
}

func newTitleOrder() *titleOrder {
	return &titleOrder{
		collator: collate.New(language.Und, collate.Loose, collate.Numeric),
	}
}

func (o *titleOrder) compare(a, b models.Node) int {
	if c := cmp.Compare(kindRank(a), kindRank(b)); c != 0 {
		return c
	}
	return o.collator.CompareString(a.Name(), b.Name())
}

// sort orders nodes in place; equal titles keep their input order
func (o *titleOrder) sort(nodes []models.Node) {
	slices.SortStableFunc(nodes, o.compare)
}

func kindRank(n models.Node) int {
	switch n.(type) {
	case *models.FolderNode:
		return 0
	case *models.ItemNode:
		return 1
	default:
		return 2
	}
}
