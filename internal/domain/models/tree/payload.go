package tree

// Section names used in the inbound payload
const (
	SectionFolders = "folders"
	SectionItems   = "items"
)

// Payload is the flat relational response the tree is built from:
//
//	{
//	  "folders": {"columns": ["id", "title", "parent_id"], "data": [[1, "Root", null]]},
//	  "items":   {"columns": ["id", "title", "folder_id"], "data": [[10, "A", 1]]}
//	}
//
// Columns are informational only. Rows are positional.
type Payload struct {
	Folders *DataSection `json:"folders" yaml:"folders"`
	Items   *DataSection `json:"items" yaml:"items"`
}

// DataSection is one named table of the payload.
// Values stay untyped until the builder decodes them so that shape problems
// surface as malformed payload errors rather than decode failures.
type DataSection struct {
	Columns []any   `json:"columns" yaml:"columns"`
	Data    [][]any `json:"data" yaml:"data"`
}

// FolderRow is a decoded folder row: [id, title, parent_id|null]
type FolderRow struct {
	ID       int64
	Title    string
	ParentID *int64
}

// ItemRow is a decoded item row: [id, title, folder_id|null]
type ItemRow struct {
	ID       int64
	Title    string
	FolderID *int64
}

// DefaultFolderColumns are the column names emitted by our own sources
var DefaultFolderColumns = []any{"id", "title", "parent_id"}

// DefaultItemColumns are the column names emitted by our own sources
var DefaultItemColumns = []any{"id", "title", "folder_id"}

// NewPayload assembles a payload from typed rows
func NewPayload(folders []FolderRow, items []ItemRow) *Payload {
	p := &Payload{
		Folders: &DataSection{Columns: DefaultFolderColumns, Data: make([][]any, 0, len(folders))},
		Items:   &DataSection{Columns: DefaultItemColumns, Data: make([][]any, 0, len(items))},
	}
	for _, f := range folders {
		p.Folders.Data = append(p.Folders.Data, []any{f.ID, f.Title, nullableInt(f.ParentID)})
	}
	for _, it := range items {
		p.Items.Data = append(p.Items.Data, []any{it.ID, it.Title, nullableInt(it.FolderID)})
	}
	return p
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
