package tree

import "time"

// VisibleNode is one row of the flattened, visibility-filtered sequence,
// annotated with its selection state for presentation.
type VisibleNode struct {
	ID          string        `json:"id"`
	Kind        NodeKind      `json:"kind"`
	OriginalID  int64         `json:"original_id"`
	Title       string        `json:"title"`
	Level       int           `json:"level"`
	Expanded    *bool         `json:"expanded,omitempty"`
	HasChildren *bool         `json:"has_children,omitempty"`
	State       CheckboxState `json:"state,omitempty"`
	Selected    *bool         `json:"selected,omitempty"`
}

// SessionView is the outbound query surface of one selection session
type SessionView struct {
	ID              string        `json:"id"`
	Version         uint64        `json:"version"`
	Status          string        `json:"status"`
	Error           string        `json:"error,omitempty"`
	SelectedItemIDs []int64       `json:"selected_item_ids"`
	SelectedSummary string        `json:"selected_summary"`
	Nodes           []VisibleNode `json:"nodes"`
	LoadedAt        time.Time     `json:"loaded_at"`
}
