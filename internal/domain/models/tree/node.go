package tree

import (
	"strconv"

	"github.com/goccy/go-json"
)

// NodeKind tags the variant held by a Node
type NodeKind string

const (
	KindFolder NodeKind = "folder"
	KindItem   NodeKind = "item"
)

// Node is either a *FolderNode or an *ItemNode.
// Callers discriminate with a type switch; Kind exposes the same tag for encoders.
type Node interface {
	Kind() NodeKind
	Key() string
	Name() string
	Depth() int
	node()
}

// FolderNode represents a folder in the tree with nested children
type FolderNode struct {
	ID         string  `json:"id"`
	OriginalID int64   `json:"original_id"`
	Title      string  `json:"title"`
	Expanded   bool    `json:"expanded"`
	Level      int     `json:"level"`
	ParentID   *string `json:"parent_id"` // nil = root
	Children   []Node  `json:"children"`
}

// ItemNode represents a selectable leaf item
type ItemNode struct {
	ID         string  `json:"id"`
	OriginalID int64   `json:"original_id"`
	Title      string  `json:"title"`
	Level      int     `json:"level"`
	FolderID   *string `json:"folder_id"`
}

func (f *FolderNode) Kind() NodeKind { return KindFolder }
func (f *FolderNode) Key() string    { return f.ID }
func (f *FolderNode) Name() string   { return f.Title }
func (f *FolderNode) Depth() int     { return f.Level }
func (f *FolderNode) node()          {}

func (i *ItemNode) Kind() NodeKind { return KindItem }
func (i *ItemNode) Key() string    { return i.ID }
func (i *ItemNode) Name() string   { return i.Title }
func (i *ItemNode) Depth() int     { return i.Level }
func (i *ItemNode) node()          {}

// IsEmpty reports whether the folder has no children at all
func (f *FolderNode) IsEmpty() bool {
	return len(f.Children) == 0
}

// MarshalJSON adds the "kind" tag so decoders on the other side can discriminate
func (f *FolderNode) MarshalJSON() ([]byte, error) {
	type alias FolderNode
	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		*alias
	}{KindFolder, (*alias)(f)})
}

// MarshalJSON adds the "kind" tag so decoders on the other side can discriminate
func (i *ItemNode) MarshalJSON() ([]byte, error) {
	type alias ItemNode
	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		*alias
	}{KindItem, (*alias)(i)})
}

// FolderKey returns the synthetic id of a folder.
// Folder and item keys live in separate namespaces so overlapping source ids never collide.
func FolderKey(originalID int64) string {
	return "folder:" + strconv.FormatInt(originalID, 10)
}

// ItemKey returns the synthetic id of an item
func ItemKey(originalID int64) string {
	return "item:" + strconv.FormatInt(originalID, 10)
}
